package janitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakePurger struct {
	calls atomic.Int32
	err   error
}

func (f *fakePurger) PurgeExpired(context.Context) (int, error) {
	f.calls.Add(1)
	return 2, f.err
}

func TestSweepDelegates(t *testing.T) {
	purger := &fakePurger{}
	j, err := NewSessionJanitor(purger, zaptest.NewLogger(t), Config{Interval: time.Minute})
	if err != nil {
		t.Fatalf("NewSessionJanitor: %v", err)
	}

	removed, err := j.Sweep(context.Background())
	if err != nil || removed != 2 {
		t.Fatalf("Sweep = %d, %v", removed, err)
	}

	purger.err = errors.New("disk full")
	if _, err := j.Sweep(context.Background()); err == nil {
		t.Fatal("expected purge error")
	}
}

func TestScheduledSweep(t *testing.T) {
	purger := &fakePurger{}
	j, err := NewSessionJanitor(purger, zaptest.NewLogger(t), Config{Interval: time.Second})
	if err != nil {
		t.Fatalf("NewSessionJanitor: %v", err)
	}
	j.Start()
	defer j.Stop(context.Background())

	deadline := time.Now().Add(5 * time.Second)
	for purger.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("scheduled sweep never ran")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
