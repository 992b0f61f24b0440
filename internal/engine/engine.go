// Package engine implements the top-level policy orchestrator: it
// looks up named rules and ORs the top-level rule list into a single
// allow/deny decision.
package engine

import (
	"context"

	"github.com/absurd-party/deploynaut/internal/identity"
	"github.com/absurd-party/deploynaut/internal/match"
	"github.com/absurd-party/deploynaut/internal/policytypes"
	"github.com/absurd-party/deploynaut/internal/rule"
)

// Logger is the narrow logging interface the core depends on.
// Callers wire in whatever structured logger they use; see
// internal/ziplog for a zap-backed implementation.
type Logger interface {
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// noopLogger silently drops everything; used when no logger is supplied.
type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Engine evaluates a fixed PolicyConfig against evaluation snapshots.
type Engine struct {
	config *policytypes.PolicyConfig
	roster identity.RosterSource
	logger Logger
}

// New constructs an Engine from a validated config, a roster source,
// and a logger. A nil logger is replaced with a no-op implementation.
func New(config *policytypes.PolicyConfig, roster identity.RosterSource, logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{config: config, roster: roster, logger: logger}
}

// Evaluate decides whether snapshot satisfies the engine's policy.
// Returns (false, err) for configuration and upstream-fetch errors;
// never folds either into a false decision.
func (e *Engine) Evaluate(ctx context.Context, snapshot policytypes.PolicyContext) (bool, error) {
	if len(e.config.Policy.Approval) == 0 {
		e.logger.Warn("policy has no top-level approval rules; denying deployment")
		return false, nil
	}

	rules, err := e.config.RuleMap()
	if err != nil {
		e.logger.Error("invalid policy configuration")
		return false, err
	}

	cache := identity.NewCache(e.roster)
	patterns := match.NewRegistry()
	resolver := rule.NewResolver(rules, snapshot, cache, patterns)

	top := policytypes.NewOrRule(e.config.Policy.Approval...)
	outcome, err := resolver.Evaluate(ctx, top)
	if err != nil {
		e.logger.Error("policy evaluation failed")
		return false, err
	}

	switch outcome {
	case rule.Pass:
		e.logger.Info("deployment approved by policy")
		return true, nil
	case rule.Fail:
		e.logger.Warn("deployment denied: policy not satisfied")
		return false, nil
	default: // rule.Skipped
		e.logger.Warn("deployment denied: all top-level rules were skipped")
		return false, nil
	}
}
