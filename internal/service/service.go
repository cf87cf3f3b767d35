// Package service implements the turn orchestrator: it decides per inbound
// message whether to run the initial or follow-up flow, drives the external
// reasoning pipeline, and records every work product in session memory.
package service

import (
	"errors"
	"log/slog"

	"github.com/safar-ai/safar/internal/adapter/llm"
	"github.com/safar-ai/safar/internal/adapter/search"
	"github.com/safar-ai/safar/internal/config"
	"github.com/safar-ai/safar/internal/memory"
	"github.com/safar-ai/safar/policy"
)

// ErrSessionNotFound reports a read against a session with no recorded
// conversation.
var ErrSessionNotFound = errors.New("session not found")

type Service struct {
	memory       *memory.Manager
	llm          llm.ReasoningClient
	search       search.Searcher
	policyEngine *policy.Engine
	config       *config.Config
	logger       *slog.Logger
}

func New(mem *memory.Manager, reasoner llm.ReasoningClient, searcher search.Searcher, policyEngine *policy.Engine, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		memory:       mem,
		llm:          reasoner,
		search:       searcher,
		policyEngine: policyEngine,
		config:       cfg,
		logger:       logger,
	}
}
