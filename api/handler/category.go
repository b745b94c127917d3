package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/repository"
	categoryUC "github.com/fastygo/taskboard/usecase/category"
)

type CategoryHandler struct {
	baseHandler
	uc *categoryUC.UseCase
}

func NewCategoryHandler(uc *categoryUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List categories
// @Tags categories
// @Router /api/v1/categories [get]
func (h *CategoryHandler) GetCategories(ctx *fasthttp.RequestCtx) {
	userID, ok := h.owner(ctx, string(ctx.QueryArgs().Peek("user_id")))
	if !ok {
		return
	}

	filter := repository.CategoryFilter{
		UserID: userID,
		Limit:  parseInt(string(ctx.QueryArgs().Peek("limit")), 0),
		Offset: parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	categories, err := h.uc.ListCategories(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, categories, len(categories), filter.Limit, filter.Offset)
}

// @Summary Create category
// @Tags categories
// @Router /api/v1/categories [post]
func (h *CategoryHandler) CreateCategory(ctx *fasthttp.RequestCtx) {
	category, ok := h.parseCategory(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateCategory(stdCtx, category)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Rename category
// @Tags categories
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(ctx *fasthttp.RequestCtx) {
	category, ok := h.parseCategory(ctx)
	if !ok {
		return
	}
	category.ID = pathID(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateCategory(stdCtx, category)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete category
// @Tags categories
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(ctx *fasthttp.RequestCtx) {
	userID, ok := h.owner(ctx, "")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteCategory(stdCtx, userID, pathID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

func (h *CategoryHandler) parseCategory(ctx *fasthttp.RequestCtx) (*domain.Category, bool) {
	var req transport.CategoryRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.invalidPayload(ctx)
		return nil, false
	}
	userID, ok := h.owner(ctx, req.UserID)
	if !ok {
		return nil, false
	}
	return &domain.Category{UserID: userID, Name: req.Name}, true
}
