package queue

import (
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnqueueJobRunsAndReportsErrors(t *testing.T) {
	q := NewRequestQueueManager(4, 2, testLogger())
	defer q.Shutdown()

	boom := errors.New("boom")
	errc := make(chan error, 1)
	q.EnqueueJob(Job{Fn: func() error { return boom }, Errc: errc})
	if err := <-errc; !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestJobPanicIsRecovered(t *testing.T) {
	q := NewRequestQueueManager(1, 1, testLogger())
	defer q.Shutdown()

	errc := make(chan error, 1)
	q.EnqueueJob(Job{Fn: func() error { panic("bad job") }, Errc: errc})
	if err := <-errc; err == nil {
		t.Fatal("expected an error from a panicking job")
	}

	// the worker survives
	q.EnqueueJob(Job{Fn: func() error { return nil }, Errc: errc})
	if err := <-errc; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTryEnqueueJobDoesNotBlock(t *testing.T) {
	q := NewRequestQueueManager(1, 1, testLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	q.EnqueueJob(Job{Fn: func() error {
		close(started)
		<-release
		return nil
	}})
	<-started

	var ran atomic.Int32
	if !q.TryEnqueueJob(Job{Fn: func() error { ran.Add(1); return nil }}) {
		t.Fatal("first job should fit in the buffer")
	}
	if q.TryEnqueueJob(Job{Fn: func() error { ran.Add(1); return nil }}) {
		t.Fatal("full queue accepted a job")
	}

	close(release)
	q.Shutdown()
	if ran.Load() != 1 {
		t.Fatalf("ran %d jobs", ran.Load())
	}
}

func TestShutdownRejectsNewJobs(t *testing.T) {
	q := NewRequestQueueManager(1, 1, testLogger())
	q.Shutdown()
	q.Shutdown()

	if q.TryEnqueueJob(Job{Fn: func() error { return nil }}) {
		t.Fatal("accepted a job after shutdown")
	}
	errc := make(chan error, 1)
	q.EnqueueJob(Job{Fn: func() error { return nil }, Errc: errc})
	if err := <-errc; !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v", err)
	}
}
