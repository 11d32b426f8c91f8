package domain_test

import (
	"testing"

	"github.com/shelfwise/crawler/internal/domain"
)

func TestJobStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	allowed := map[domain.JobStatus][]domain.JobStatus{
		domain.JobStatusPending:   {domain.JobStatusRunning},
		domain.JobStatusRunning:   {domain.JobStatusCompleted, domain.JobStatusFailed},
		domain.JobStatusCompleted: {},
		domain.JobStatusFailed:    {},
	}

	all := []domain.JobStatus{
		domain.JobStatusPending,
		domain.JobStatusRunning,
		domain.JobStatusCompleted,
		domain.JobStatusFailed,
	}

	for from, targets := range allowed {
		ok := map[domain.JobStatus]bool{}
		for _, to := range targets {
			ok[to] = true
		}
		for _, to := range all {
			got := from.CanTransitionTo(to)
			if got != ok[to] {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, ok[to])
			}
		}
	}
}

func TestJobStatus_TerminalStatesAreDeadEnds(t *testing.T) {
	t.Parallel()

	for _, s := range []domain.JobStatus{domain.JobStatusCompleted, domain.JobStatusFailed} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
		for _, next := range []domain.JobStatus{
			domain.JobStatusPending,
			domain.JobStatusRunning,
			domain.JobStatusCompleted,
			domain.JobStatusFailed,
		} {
			if s.CanTransitionTo(next) {
				t.Errorf("terminal state %s must not transition to %s", s, next)
			}
		}
	}

	if domain.JobStatusPending.IsTerminal() {
		t.Error("pending should not be terminal")
	}
	if domain.JobStatusRunning.IsTerminal() {
		t.Error("running should not be terminal")
	}
}

func TestJobStatus_IsValid(t *testing.T) {
	t.Parallel()

	if !domain.JobStatusPending.IsValid() {
		t.Error("pending should be valid")
	}
	if domain.JobStatus("cancelled").IsValid() {
		t.Error("unknown status should be invalid")
	}
	if domain.JobStatus("").IsValid() {
		t.Error("empty status should be invalid")
	}
}

func TestParseTargetKind(t *testing.T) {
	t.Parallel()

	kind, err := domain.ParseTargetKind("product_detail")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != domain.TargetProductDetail {
		t.Errorf("got %q, want %q", kind, domain.TargetProductDetail)
	}

	if _, err := domain.ParseTargetKind("article"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
