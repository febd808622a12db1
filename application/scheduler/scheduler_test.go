// application/scheduler/scheduler_test.go
package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleNextRunInterval(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	next := Every(time.Hour).nextRun(now)
	assert.Equal(t, now.Add(time.Hour), next)
}

func TestScheduleNextRunDaily(t *testing.T) {
	schedule := DailyAt(9, 30)

	// До 09:30 — запуск сегодня
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), schedule.nextRun(now))

	// После 09:30 — запуск завтра
	now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC), schedule.nextRun(now))
}

func TestTickRunsDueJob(t *testing.T) {
	s := New()

	done := make(chan struct{})
	job := &Job{
		Name:     "test",
		Schedule: Every(time.Hour),
		Handler: func(ctx context.Context) error {
			close(done)
			return nil
		},
	}
	s.Register(job)

	// Делаем задачу просроченной и дергаем tick вручную
	job.mu.Lock()
	job.nextRun = time.Now().UTC().Add(-time.Minute)
	job.mu.Unlock()

	s.tick()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("задача не запустилась")
	}

	s.Stop()
	assert.Equal(t, 1, s.Jobs()[0].Runs)
}

func TestPanicInJobDoesNotCrash(t *testing.T) {
	s := New()
	job := &Job{
		Name:     "panics",
		Schedule: Every(time.Hour),
		Handler: func(ctx context.Context) error {
			panic("boom")
		},
	}
	s.Register(job)

	job.mu.Lock()
	job.nextRun = time.Now().UTC().Add(-time.Minute)
	job.mu.Unlock()

	s.tick()
	s.Stop() // дожидается горутины задачи; паника не должна дойти сюда

	assert.Equal(t, 1, s.Jobs()[0].Runs)
}
