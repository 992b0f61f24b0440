// Package requirement implements the requirement checker: confirming
// at least count distinct valid reviews from authorized identities.
package requirement

import (
	"context"

	"github.com/absurd-party/deploynaut/internal/identity"
	"github.com/absurd-party/deploynaut/internal/policytypes"
)

// Satisfied reports whether validReviews contains at least req.Count
// reviews from distinct reviewers authorized by req's identity set.
func Satisfied(ctx context.Context, req *policytypes.ApprovalRequirement, validReviews []policytypes.Review, cache *identity.Cache) (bool, error) {
	if req == nil || req.Count < 1 {
		return true, nil
	}
	counted := make(map[int64]bool)
	for _, r := range validReviews {
		if counted[r.User.ID] {
			continue
		}
		ok, err := cache.IsUserInAny(ctx, r.User.Login, req.Users, req.Organizations, req.Teams)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		counted[r.User.ID] = true
	}
	return len(counted) >= req.Count, nil
}
