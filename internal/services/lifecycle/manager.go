package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// StopFunc stops one component within the shutdown deadline.
type StopFunc func(ctx context.Context) error

type component struct {
	name string
	stop StopFunc
}

// Manager stops the registered components in reverse registration order
// when the process is asked to terminate. Shutdown runs at most once.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	components []component
	stopped    bool
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register adds a component. Components registered after Shutdown are
// stopped immediately.
func (m *Manager) Register(name string, stop StopFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	if !m.stopped {
		m.components = append(m.components, component{name: name, stop: stop})
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	m.stopOne(ctx, component{name: name, stop: stop})
}

// WithSignals returns a context cancelled on SIGINT or SIGTERM.
func (m *Manager) WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Shutdown stops every component under one deadline and joins their errors.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	components := m.components
	m.components = nil
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var result error
	for i := len(components) - 1; i >= 0; i-- {
		if err := m.stopOne(ctx, components[i]); err != nil {
			result = errors.Join(result, err)
		}
	}
	return result
}

func (m *Manager) stopOne(ctx context.Context, c component) error {
	started := time.Now()
	if err := c.stop(ctx); err != nil {
		m.logger.Error("component stop failed", zap.String("component", c.name), zap.Error(err))
		return err
	}
	m.logger.Info("component stopped", zap.String("component", c.name), zap.Duration("took", time.Since(started)))
	return nil
}
