package policy

import (
	"context"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(context.Background(), DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e
}

func TestEvaluateAllow(t *testing.T) {
	e := newTestEngine(t)

	decision, err := e.Evaluate(context.Background(), map[string]any{
		"service_type": "flight",
		"entities":     map[string]any{"destination": "Goa"},
		"amount":       4500,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != "allow" {
		t.Fatalf("expected allow, got %s", decision)
	}
}

func TestEvaluateBlockWithoutDestination(t *testing.T) {
	e := newTestEngine(t)

	decision, err := e.Evaluate(context.Background(), map[string]any{
		"service_type": "flight",
		"entities":     map[string]any{},
		"amount":       4500,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != "block" {
		t.Fatalf("expected block, got %s", decision)
	}
}

func TestEvaluateRequireConfirmationAboveLimit(t *testing.T) {
	e := newTestEngine(t)

	decision, err := e.Evaluate(context.Background(), map[string]any{
		"service_type": "flight",
		"entities":     map[string]any{"destination": "Goa"},
		"amount":       25000,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != "require_confirmation" {
		t.Fatalf("expected require_confirmation, got %s", decision)
	}
}

func TestEvaluateConfirmedAboveLimit(t *testing.T) {
	e := newTestEngine(t)

	// An explicit confirmation turn clears the price ceiling.
	decision, err := e.Evaluate(context.Background(), map[string]any{
		"service_type": "flight",
		"entities":     map[string]any{"destination": "Goa"},
		"amount":       25000,
		"confirmed":    true,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != "allow" {
		t.Fatalf("expected allow after confirmation, got %s", decision)
	}
}

func TestEvaluateConfirmationNeverBypassesBlock(t *testing.T) {
	e := newTestEngine(t)

	decision, err := e.Evaluate(context.Background(), map[string]any{
		"service_type": "flight",
		"entities":     map[string]any{},
		"amount":       25000,
		"confirmed":    true,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != "block" {
		t.Fatalf("expected block despite confirmation, got %s", decision)
	}
}

func TestEvaluateBoundaryAmount(t *testing.T) {
	e := newTestEngine(t)

	// Exactly the limit stays auto-confirmed.
	decision, err := e.Evaluate(context.Background(), map[string]any{
		"service_type": "hotel",
		"entities":     map[string]any{"destination": "Goa"},
		"amount":       10000,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != "allow" {
		t.Fatalf("expected allow at the limit, got %s", decision)
	}
}

func TestNewEngineRejectsBrokenPolicy(t *testing.T) {
	if _, err := NewEngine(context.Background(), "package broken\n\ndecision :="); err == nil {
		t.Fatal("expected a parse error")
	}
}
