package retention

import (
	"context"
	"errors"
	"testing"
	"time"
)

type sweeperStub struct {
	cutoff  time.Time
	deleted int64
	err     error
	calls   int
}

func (s *sweeperStub) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.calls++
	s.cutoff = cutoff
	return s.deleted, s.err
}

func TestRunUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sweeper := &sweeperStub{deleted: 7}

	job := New(sweeper, 30*24*time.Hour, nil)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sweeper.calls != 1 {
		t.Fatalf("expected one sweep, got %d", sweeper.calls)
	}
	want := now.Add(-30 * 24 * time.Hour)
	if !sweeper.cutoff.Equal(want) {
		t.Fatalf("cutoff: got %v want %v", sweeper.cutoff, want)
	}
}

func TestRunDefaultsRetention(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sweeper := &sweeperStub{}

	job := New(sweeper, 0, nil)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := now.Add(-30 * 24 * time.Hour)
	if !sweeper.cutoff.Equal(want) {
		t.Fatalf("default cutoff: got %v want %v", sweeper.cutoff, want)
	}
}

func TestRunPropagatesErrors(t *testing.T) {
	sweeper := &sweeperStub{err: errors.New("boom")}
	job := New(sweeper, time.Hour, nil)

	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunNoSweeperIsNoop(t *testing.T) {
	job := New(nil, time.Hour, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
}
