package view

import (
	"strings"
	"sync"

	"github.com/fastygo/taskboard/internal/app/session"
)

const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
)

// Screen is what the front-end renders for a path.
type Screen string

const (
	ScreenLoading   Screen = "loading"
	ScreenLogin     Screen = "login"
	ScreenRegister  Screen = "register"
	ScreenDashboard Screen = "dashboard"
)

// Outcome of guarding a protected route.
type Outcome int

const (
	ShowLoading Outcome = iota
	ShowContent
	RedirectToLogin
)

// Guard decides what a protected route shows for a session state.
func Guard(state session.State) Outcome {
	switch state.Status {
	case session.Present:
		return ShowContent
	case session.Absent:
		return RedirectToLogin
	default:
		return ShowLoading
	}
}

// Resolve maps a path to the screen to show and the path the user ends up
// on after redirects. Unknown paths go to the login screen.
func Resolve(path string, state session.State) (Screen, string) {
	switch normalizePath(path) {
	case PathRoot:
		switch state.Status {
		case session.Present:
			return ScreenDashboard, PathDashboard
		case session.Absent:
			return ScreenLogin, PathLogin
		default:
			return ScreenLoading, PathRoot
		}
	case PathLogin:
		return ScreenLogin, PathLogin
	case PathRegister:
		return ScreenRegister, PathRegister
	case PathDashboard:
		switch Guard(state) {
		case ShowContent:
			return ScreenDashboard, PathDashboard
		case RedirectToLogin:
			return ScreenLogin, PathLogin
		default:
			return ScreenLoading, PathDashboard
		}
	default:
		return ScreenLogin, PathLogin
	}
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Tab selects the dashboard panel.
type Tab string

const (
	TabTasks      Tab = "tasks"
	TabCategories Tab = "categories"
)

// SessionSource is implemented by session.Store.
type SessionSource interface {
	State() session.State
	Subscribe(listener session.Listener) func()
}

// Navigator tracks the current path and dashboard tab and re-resolves the
// route on every session change.
type Navigator struct {
	mu     sync.Mutex
	path   string
	screen Screen
	tab    Tab
	state  session.State
}

func NewNavigator() *Navigator {
	return &Navigator{path: PathRoot, screen: ScreenLoading, tab: TabTasks}
}

// Bind follows source until the returned func is called.
func (n *Navigator) Bind(source SessionSource) func() {
	unsubscribe := source.Subscribe(n.OnSessionChange)
	n.OnSessionChange(source.State())
	return unsubscribe
}

// Navigate moves to path and returns the screen to show.
func (n *Navigator) Navigate(path string) Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.screen, n.path = Resolve(path, n.state)
	return n.screen
}

func (n *Navigator) OnSessionChange(state session.State) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = state
	n.screen, n.path = Resolve(n.path, state)
}

func (n *Navigator) Screen() Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.screen
}

func (n *Navigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *Navigator) Tab() Tab {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tab
}

// SetTab switches the dashboard panel; unknown tabs are ignored.
func (n *Navigator) SetTab(tab Tab) bool {
	if tab != TabTasks && tab != TabCategories {
		return false
	}
	n.mu.Lock()
	n.tab = tab
	n.mu.Unlock()
	return true
}
