package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/taskboard/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
	KeyUserID     Key = "user_id"
	KeySessionID  Key = "session_id"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := RequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	if userID := UserID(ctx); userID != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserID, userID)
	}

	return stdCtx, cancel
}

// RequestID returns the request id of ctx, assigning one (and echoing it in
// the X-Request-ID response header) on first use.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if reqID, ok := ctx.UserValue(appLogger.RequestIDField).(string); ok && reqID != "" {
		return reqID
	}
	reqID := string(ctx.Request.Header.Peek("X-Request-ID"))
	if strings.TrimSpace(reqID) == "" {
		reqID = uuid.NewString()
	}
	ctx.SetUserValue(appLogger.RequestIDField, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)
	return reqID
}

// SetIdentity records the authenticated caller on the request. Only the
// auth middleware calls it.
func SetIdentity(ctx *fasthttp.RequestCtx, userID, sessionID string) {
	ctx.SetUserValue(string(KeyUserID), userID)
	ctx.SetUserValue(string(KeySessionID), sessionID)
}

// UserID returns the authenticated user id, or "" on public routes.
func UserID(ctx *fasthttp.RequestCtx) string {
	userID, _ := ctx.UserValue(string(KeyUserID)).(string)
	return userID
}

// SessionID returns the session the access token was minted for.
func SessionID(ctx *fasthttp.RequestCtx) string {
	sessionID, _ := ctx.UserValue(string(KeySessionID)).(string)
	return sessionID
}
