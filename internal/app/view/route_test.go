package view

import (
	"testing"

	"github.com/fastygo/taskboard/internal/app/session"
)

func TestGuard(t *testing.T) {
	tests := []struct {
		state session.State
		want  Outcome
	}{
		{session.State{}, ShowLoading},
		{session.State{Status: session.Absent}, RedirectToLogin},
		{signedIn("u1"), ShowContent},
	}
	for _, tt := range tests {
		if got := Guard(tt.state); got != tt.want {
			t.Errorf("Guard(%v) = %v, want %v", tt.state.Status, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	absent := session.State{Status: session.Absent}
	present := signedIn("u1")

	tests := []struct {
		name       string
		path       string
		state      session.State
		wantScreen Screen
		wantPath   string
	}{
		{"root signed in", "/", present, ScreenDashboard, PathDashboard},
		{"root signed out", "/", absent, ScreenLogin, PathLogin},
		{"root unresolved", "", session.State{}, ScreenLoading, PathRoot},
		{"login", "/login", present, ScreenLogin, PathLogin},
		{"register", "register", absent, ScreenRegister, PathRegister},
		{"dashboard signed out", "/dashboard", absent, ScreenLogin, PathLogin},
		{"dashboard signed in", "/dashboard/", present, ScreenDashboard, PathDashboard},
		{"dashboard unresolved", "/dashboard", session.State{}, ScreenLoading, PathDashboard},
		{"unknown", "/nowhere", present, ScreenLogin, PathLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen, path := Resolve(tt.path, tt.state)
			if screen != tt.wantScreen || path != tt.wantPath {
				t.Fatalf("Resolve(%q) = %s %s, want %s %s", tt.path, screen, path, tt.wantScreen, tt.wantPath)
			}
		})
	}
}

type stubSource struct {
	state     session.State
	listeners []session.Listener
}

func (s *stubSource) State() session.State { return s.state }

func (s *stubSource) Subscribe(l session.Listener) func() {
	s.listeners = append(s.listeners, l)
	return func() { s.listeners = nil }
}

func (s *stubSource) set(state session.State) {
	s.state = state
	for _, l := range s.listeners {
		l(state)
	}
}

func TestNavigatorFollowsSession(t *testing.T) {
	source := &stubSource{}
	n := NewNavigator()
	unbind := n.Bind(source)
	defer unbind()

	if n.Navigate("/dashboard") != ScreenLoading {
		t.Fatalf("screen while unresolved = %s", n.Screen())
	}

	source.set(session.State{Status: session.Absent})
	if n.Screen() != ScreenLogin || n.Path() != PathLogin {
		t.Fatalf("signed out: %s %s", n.Screen(), n.Path())
	}

	source.set(signedIn("u1"))
	if n.Screen() != ScreenLogin {
		t.Fatal("signing in does not navigate by itself")
	}
	if n.Navigate(PathDashboard) != ScreenDashboard {
		t.Fatalf("dashboard after sign-in = %s", n.Screen())
	}

	if !n.SetTab(TabCategories) || n.Tab() != TabCategories {
		t.Fatal("tab not switched")
	}
	if n.SetTab("settings") {
		t.Fatal("unknown tab accepted")
	}

	source.set(session.State{Status: session.Absent})
	if n.Screen() != ScreenLogin {
		t.Fatalf("sign-out should redirect to login, got %s", n.Screen())
	}
}
