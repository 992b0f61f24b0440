// Package review implements the review filter: reducing raw reviews
// to the set of method-valid approving reviews for a requirement.
package review

import (
	"github.com/absurd-party/deploynaut/internal/match"
	"github.com/absurd-party/deploynaut/internal/policytypes"
)

// Filter returns the reviews that survive commit binding, self-review
// exclusion, and method matching, in input order. Duplicates by id are
// never introduced since the input is scanned once.
func Filter(reviews []policytypes.Review, commits []policytypes.Commit, deployment *policytypes.Deployment, methods *policytypes.ApprovalMethods, patterns *match.Registry) ([]policytypes.Review, error) {
	boundSHA := ""
	if deployment != nil {
		boundSHA = deployment.Commit.SHA
	}

	var out []policytypes.Review
	for _, r := range reviews {
		if boundSHA != "" && r.CommitID != boundSHA {
			continue
		}
		if isSelfReview(r, commits) {
			continue
		}
		ok, err := matchesMethod(r, methods, patterns)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// isSelfReview reports whether the reviewer authored or committed any
// commit in the change.
func isSelfReview(r policytypes.Review, commits []policytypes.Commit) bool {
	for _, c := range commits {
		if c.Author != nil && c.Author.ID == r.User.ID {
			return true
		}
		if c.Committer != nil && c.Committer.ID == r.User.ID {
			return true
		}
	}
	return false
}

func matchesMethod(r policytypes.Review, methods *policytypes.ApprovalMethods, patterns *match.Registry) (bool, error) {
	if methods == nil {
		return false, nil
	}
	if methods.GithubReview && r.State == policytypes.ReviewStateApproved {
		return true, nil
	}
	if len(methods.GithubReviewCommentPatterns) > 0 && r.State == policytypes.ReviewStateCommented && r.Body != "" {
		ok, err := patterns.MatchesAny(methods.GithubReviewCommentPatterns, r.Body)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
