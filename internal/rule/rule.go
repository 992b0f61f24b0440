// Package rule implements the rule evaluator: resolving named rules,
// applying their "if" gate and "requires" threshold, and reducing
// AND/OR groups under three-valued logic.
package rule

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/absurd-party/deploynaut/internal/condition"
	"github.com/absurd-party/deploynaut/internal/identity"
	"github.com/absurd-party/deploynaut/internal/match"
	"github.com/absurd-party/deploynaut/internal/policyerr"
	"github.com/absurd-party/deploynaut/internal/policytypes"
	"github.com/absurd-party/deploynaut/internal/requirement"
	"github.com/absurd-party/deploynaut/internal/review"
)

// Outcome is the three-valued result of evaluating a rule.
type Outcome int

const (
	Pass Outcome = iota
	Fail
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Resolver evaluates ApprovalRule trees against a fixed policy context,
// looking up named rules from rules and joining against roster via
// cache.
type Resolver struct {
	rules    map[string]*policytypes.NamedApprovalRule
	snapshot policytypes.PolicyContext
	cache    *identity.Cache
	patterns *match.Registry
}

// NewResolver builds a resolver for one evaluation.
func NewResolver(rules map[string]*policytypes.NamedApprovalRule, snapshot policytypes.PolicyContext, cache *identity.Cache, patterns *match.Registry) *Resolver {
	return &Resolver{rules: rules, snapshot: snapshot, cache: cache, patterns: patterns}
}

// Evaluate resolves and reduces rule to a three-valued Outcome.
func (r *Resolver) Evaluate(ctx context.Context, rule policytypes.ApprovalRule) (Outcome, error) {
	return r.evaluate(ctx, rule, map[string]bool{})
}

func (r *Resolver) evaluate(ctx context.Context, ar policytypes.ApprovalRule, visited map[string]bool) (Outcome, error) {
	switch ar.Kind() {
	case policytypes.KindNamed:
		return r.evaluateNamed(ctx, ar.Name(), visited)
	case policytypes.KindAnd:
		return r.evaluateGroup(ctx, ar.Children(), visited, reduceAnd)
	case policytypes.KindOr, policytypes.KindList:
		return r.evaluateGroup(ctx, ar.Children(), visited, reduceOr)
	default:
		return Fail, nil
	}
}

func (r *Resolver) evaluateNamed(ctx context.Context, name string, visited map[string]bool) (Outcome, error) {
	if visited[name] {
		return Fail, policyerr.NewConfigError("rule reference", fmt.Errorf("cycle detected at rule %q", name))
	}
	named, ok := r.rules[name]
	if !ok {
		return Fail, policyerr.NewConfigError("rule reference", fmt.Errorf("unknown rule %q", name))
	}

	gated, err := condition.Evaluate(ctx, named.If, r.snapshot, r.cache)
	if err != nil {
		return Fail, err
	}
	if !gated {
		return Skipped, nil
	}

	if named.Requires == nil || named.Requires.Count < 1 {
		return Pass, nil
	}

	valid, err := review.Filter(r.snapshot.Reviews, r.snapshot.Commits, r.snapshot.Deployment, named.Methods, r.patterns)
	if err != nil {
		return Fail, err
	}
	satisfied, err := requirement.Satisfied(ctx, named.Requires, valid, r.cache)
	if err != nil {
		return Fail, err
	}
	if satisfied {
		return Pass, nil
	}
	return Fail, nil
}

// evaluateGroup evaluates children concurrently and reduces with
// reduce, which implements either AND or OR skipped-discarding
// semantics. visited is read-only here: named-rule leaves
// never recurse into another rule tree under the current grammar, so
// there is nothing to extend it with, but the cycle check in
// evaluateNamed stays in place against future grammar extensions that
// would let a named rule's definition reference another rule.
func (r *Resolver) evaluateGroup(ctx context.Context, children []policytypes.ApprovalRule, visited map[string]bool, reduce func([]Outcome) Outcome) (Outcome, error) {
	results := make([]Outcome, len(children))
	g, gctx := errgroup.WithContext(ctx)
	for i, child := range children {
		i, child := i, child
		g.Go(func() error {
			outcome, err := r.evaluate(gctx, child, visited)
			if err != nil {
				return err
			}
			results[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Fail, err
	}
	return reduce(results), nil
}

func reduceAnd(outcomes []Outcome) Outcome {
	remaining := withoutSkipped(outcomes)
	if len(remaining) == 0 {
		return Skipped
	}
	for _, o := range remaining {
		if o != Pass {
			return Fail
		}
	}
	return Pass
}

func reduceOr(outcomes []Outcome) Outcome {
	remaining := withoutSkipped(outcomes)
	if len(remaining) == 0 {
		return Skipped
	}
	for _, o := range remaining {
		if o == Pass {
			return Pass
		}
	}
	return Fail
}

func withoutSkipped(outcomes []Outcome) []Outcome {
	out := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o != Skipped {
			out = append(out, o)
		}
	}
	return out
}
