package sync

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/berrythread/storefront-api/pkg/logger"
	"github.com/berrythread/storefront-api/pkg/metrics"
	"github.com/berrythread/storefront-api/pkg/redis"
)

type stubJob struct {
	name string
	runs int
	err  error
}

func (j *stubJob) Name() string { return j.name }

func (j *stubJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

type stubLock struct {
	available bool
	acquired  int
	released  int
}

func (l *stubLock) Acquire(ctx context.Context) (bool, error) {
	l.acquired++
	return l.available, nil
}

func (l *stubLock) Release(ctx context.Context) error {
	l.released++
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "sync-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestRegistryPreservesOrderAndSkipsNil(t *testing.T) {
	t.Parallel()

	first := &stubJob{name: "first"}
	second := &stubJob{name: "second"}
	registry := NewRegistry(first, nil, second)
	registry.Register(nil)

	jobs := registry.Jobs()
	if len(jobs) != 2 || jobs[0].Name() != "first" || jobs[1].Name() != "second" {
		t.Fatalf("unexpected jobs %v", jobs)
	}
}

func TestServiceRunsJobsWhenLocked(t *testing.T) {
	t.Parallel()

	job := &stubJob{name: "catalog-refresh"}
	lock := &stubLock{available: true}
	reg := prometheus.NewRegistry()
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
		Metrics:  metrics.NewSyncJobMetrics(reg),
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 1 {
		t.Fatalf("expected one run, got %d", job.runs)
	}
	if lock.released != 1 {
		t.Fatalf("lock must be released, got %d releases", lock.released)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var successSeen bool
	for _, mf := range mfs {
		if mf.GetName() == "sync_job_success" {
			successSeen = true
		}
	}
	if !successSeen {
		t.Fatal("success counter not recorded")
	}
}

func TestServiceSkipsCycleWhenLockHeldElsewhere(t *testing.T) {
	t.Parallel()

	job := &stubJob{name: "catalog-refresh"}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     &stubLock{available: false},
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatal("jobs must not run without the lock")
	}
}

func TestServiceJobFailureDoesNotAbortCycle(t *testing.T) {
	t.Parallel()

	failing := &stubJob{name: "broken", err: errors.New("boom")}
	following := &stubJob{name: "after"}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(failing, following),
		Lock:     &stubLock{available: true},
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if following.runs != 1 {
		t.Fatal("a failing job must not block the jobs after it")
	}
}

func TestServiceRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(),
		Lock:     &stubLock{available: true},
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

type fakeLockRedis struct {
	data map[string]string
}

func (f *fakeLockRedis) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeLockRedis) Get(ctx context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeLockRedis) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func TestRedisLockLifecycle(t *testing.T) {
	t.Parallel()

	fake := &fakeLockRedis{data: map[string]string{}}
	lock, err := NewRedisLock(fake, "sf:sync_lock", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}

	ok, err := lock.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected acquire, got ok=%v err=%v", ok, err)
	}

	second, err := NewRedisLock(fake, "sf:sync_lock", time.Minute)
	if err != nil {
		t.Fatalf("new second lock: %v", err)
	}
	ok, err = second.Acquire(context.Background())
	if err != nil || ok {
		t.Fatalf("held lock must not be re-acquired, got ok=%v err=%v", ok, err)
	}

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, held := fake.data["sf:sync_lock"]; held {
		t.Fatal("release must delete the key")
	}

	// Releasing again is a no-op.
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("double release: %v", err)
	}
}

func TestRedisLockReleaseRespectsOwner(t *testing.T) {
	t.Parallel()

	fake := &fakeLockRedis{data: map[string]string{}}
	lock, err := NewRedisLock(fake, "sf:sync_lock", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	if ok, _ := lock.Acquire(context.Background()); !ok {
		t.Fatal("acquire failed")
	}

	// Simulate the TTL expiring and another instance taking over.
	fake.data["sf:sync_lock"] = "someone-else"
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release: %v", err)
	}
	if fake.data["sf:sync_lock"] != "someone-else" {
		t.Fatal("release must not delete a lock it no longer owns")
	}
}
