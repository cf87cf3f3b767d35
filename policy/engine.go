// Package policy evaluates booking requests against an OPA rego policy
// before a mock confirmation is produced.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.booking_policy.decision"),
		rego.Module("booking_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}
	return &Engine{query: query}, nil
}

// Evaluate checks the booking policy. Input should be a map with keys:
// service_type, entities and amount. Returns the decision string
// (allow, require_confirmation, block).
func (e *Engine) Evaluate(ctx context.Context, input any) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default, so an empty result set means the
		// module is broken rather than undecided.
		return "", fmt.Errorf("policy produced no decision")
	}
	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("policy produced a non-string decision")
}

// DefaultPolicy is the default booking policy content.
const DefaultPolicy = `
package booking_policy

import rego.v1

default decision := "allow"

# A booking without a destination cannot be fulfilled.
decision := "block" if {
	not entities_complete
}

# Expensive bookings need an explicit user confirmation turn before they
# go through.
decision := "require_confirmation" if {
	entities_complete
	input.amount > 10000
	not input.confirmed
}

entities_complete if {
	input.entities.destination
}
`
