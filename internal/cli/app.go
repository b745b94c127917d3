package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/internal/app/adapter"
	"github.com/fastygo/taskboard/internal/app/session"
	"github.com/fastygo/taskboard/internal/app/view"
	"github.com/fastygo/taskboard/pkg/client"
)

var errSignedOut = errors.New("sign in first: login <email> <password>")

type Options struct {
	BaseURL string
	Output  string
	Timeout time.Duration
	Dial    fasthttp.DialFunc
	Logger  *zap.Logger
}

// App ties the client core together for the shell.
type App struct {
	store      *session.Store
	nav        *view.Navigator
	categories *view.CategoryView
	board      *view.TaskBoard
	logger     *zap.Logger

	out    io.Writer
	format string

	// user ids the views were last mounted for; category changes clear
	// boardFor so the board refetches its columns
	categoriesFor string
	boardFor      string
	unbind        func()
}

func NewApp(opts Options, out io.Writer) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Output == "" {
		opts.Output = formatText
	}

	backend := client.New(client.Config{
		BaseURL: opts.BaseURL,
		Timeout: opts.Timeout,
		Dial:    opts.Dial,
		Logger:  opts.Logger.Named("client"),
	})
	categories := adapter.NewCategoryAdapter(backend, opts.Logger)
	tasks := adapter.NewTaskAdapter(backend, opts.Logger)

	return &App{
		store:      session.New(backend, opts.Logger.Named("session")),
		nav:        view.NewNavigator(),
		categories: view.NewCategoryView(categories, opts.Logger),
		board:      view.NewTaskBoard(tasks, categories, opts.Logger),
		logger:     opts.Logger,
		out:        out,
		format:     opts.Output,
	}
}

// Start resolves the session and lands on the root route.
func (a *App) Start(ctx context.Context) {
	a.store.Start(ctx)
	a.unbind = a.nav.Bind(a.store)
	a.nav.Navigate(view.PathRoot)
}

func (a *App) Close() {
	if a.unbind != nil {
		a.unbind()
	}
	a.store.Close()
}

// dashboard fails unless the route guard lets the user in.
func (a *App) dashboard() error {
	if a.nav.Navigate(view.PathDashboard) != view.ScreenDashboard {
		return errSignedOut
	}
	return nil
}

func (a *App) categoryView(ctx context.Context) (*view.CategoryView, error) {
	if err := a.dashboard(); err != nil {
		return nil, err
	}
	state := a.store.State()
	if a.categoriesFor != state.UserID() {
		if err := a.categories.Mount(ctx, state); err != nil {
			return nil, err
		}
		a.categoriesFor = state.UserID()
	}
	return a.categories, nil
}

func (a *App) taskBoard(ctx context.Context) (*view.TaskBoard, error) {
	if err := a.dashboard(); err != nil {
		return nil, err
	}
	state := a.store.State()
	if a.boardFor != state.UserID() {
		if err := a.board.Mount(ctx, state); err != nil {
			return nil, err
		}
		a.boardFor = state.UserID()
	}
	return a.board, nil
}

// switchTab remounts the panel being opened so it shows fresh data.
func (a *App) switchTab(ctx context.Context, tab view.Tab) error {
	if !a.nav.SetTab(tab) {
		return errors.New("unknown tab, use tasks or categories")
	}
	switch tab {
	case view.TabCategories:
		a.categoriesFor = ""
		_, err := a.categoryView(ctx)
		return err
	default:
		a.boardFor = ""
		_, err := a.taskBoard(ctx)
		return err
	}
}
