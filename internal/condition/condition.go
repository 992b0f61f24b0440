// Package condition implements the condition evaluator: the
// environment, has_valid_signatures_by, and was_authored_by predicates
// that gate a named rule.
package condition

import (
	"context"

	"github.com/absurd-party/deploynaut/internal/identity"
	"github.com/absurd-party/deploynaut/internal/policytypes"
)

// Evaluate reports whether every predicate set on cond holds against
// ctx. A RuleCondition with no fields set is vacuously true.
func Evaluate(ctx context.Context, cond *policytypes.RuleCondition, snapshot policytypes.PolicyContext, cache *identity.Cache) (bool, error) {
	if cond == nil {
		return true, nil
	}
	if cond.Environment != nil {
		if !evaluateEnvironment(cond.Environment, snapshot.Environment) {
			return false, nil
		}
	}
	if cond.HasValidSignaturesBy != nil {
		ok, err := evaluateValidSignatures(ctx, cond.HasValidSignaturesBy, snapshot.Commits, cache)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	if cond.WasAuthoredBy != nil {
		ok, err := evaluateAuthoredBy(ctx, cond.WasAuthoredBy, snapshot.Commits, cache)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluateEnvironment(cond *policytypes.EnvironmentCondition, env *policytypes.EnvironmentInfo) bool {
	if env == nil {
		return false
	}
	if len(cond.Matches) > 0 && !contains(cond.Matches, env.Name) {
		return false
	}
	if len(cond.NotMatches) > 0 && contains(cond.NotMatches, env.Name) {
		return false
	}
	return true
}

func evaluateValidSignatures(ctx context.Context, set *policytypes.IdentitySet, commits []policytypes.Commit, cache *identity.Cache) (bool, error) {
	for _, commit := range commits {
		if commit.Verification == nil || !commit.Verification.Verified {
			return false, nil
		}
		ok, err := cache.IsUserInAny(ctx, commit.CommitterLogin(), set.Users, set.Organizations, set.Teams)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluateAuthoredBy(ctx context.Context, set *policytypes.IdentitySet, commits []policytypes.Commit, cache *identity.Cache) (bool, error) {
	if len(commits) == 0 {
		return false, nil
	}
	for _, commit := range commits {
		ok, err := cache.IsUserInAny(ctx, commit.AuthorLogin(), set.Users, set.Organizations, set.Teams)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
