package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestAddJobValidation(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer svc.Stop()

	if _, err := svc.AddJob("", "* * * * *", func() {}); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("AddJob(empty name) error = %v, want %v", err, ErrEmptyJobName)
	}
	if _, err := svc.AddJob("nightly", " ", func() {}); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("AddJob(empty cron) error = %v, want %v", err, ErrEmptyCronExpr)
	}
	if _, err := svc.AddIntervalJob("cleanup", 0, func() {}); !errors.Is(err, ErrBadInterval) {
		t.Fatalf("AddIntervalJob(0) error = %v, want %v", err, ErrBadInterval)
	}
	if _, err := svc.AddJob("nightly", "0 3 * * *", func() {}); err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}
	if got := len(svc.Jobs()); got != 1 {
		t.Fatalf("Jobs() length = %d, want 1", got)
	}
}

func TestIntervalJobRuns(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var runs atomic.Int32
	done := make(chan struct{})
	if _, err := svc.AddIntervalJob("tick", 10*time.Millisecond, func() {
		if runs.Add(1) == 2 {
			close(done)
		}
	}); err != nil {
		t.Fatalf("AddIntervalJob() error = %v", err)
	}
	svc.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("interval job ran %d times before timeout, want 2", runs.Load())
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
}

func TestNilService(t *testing.T) {
	var svc *Service
	if err := svc.Stop(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("nil Stop() error = %v", err)
	}
	if _, err := svc.AddIntervalJob("x", time.Second, func() {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("nil AddIntervalJob() error = %v", err)
	}
}
