package review

import (
	"testing"

	"github.com/absurd-party/deploynaut/internal/match"
	"github.com/absurd-party/deploynaut/internal/policytypes"
)

func TestFilter_CommitBinding(t *testing.T) {
	reviews := []policytypes.Review{
		{ID: 1, User: policytypes.Identity{ID: 100, Login: "alice"}, State: policytypes.ReviewStateApproved, CommitID: "sha-x"},
		{ID: 2, User: policytypes.Identity{ID: 101, Login: "bob"}, State: policytypes.ReviewStateApproved, CommitID: "sha-y"},
	}
	deployment := &policytypes.Deployment{Commit: policytypes.DeploymentCommit{SHA: "sha-x"}}
	methods := &policytypes.ApprovalMethods{GithubReview: true}

	got, err := Filter(reviews, nil, deployment, methods, match.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("Filter = %+v; want only review bound to sha-x", got)
	}
}

func TestFilter_NoDeploymentBoundSkipsCommitCheck(t *testing.T) {
	reviews := []policytypes.Review{
		{ID: 1, User: policytypes.Identity{ID: 100, Login: "alice"}, State: policytypes.ReviewStateApproved, CommitID: "sha-x"},
	}
	methods := &policytypes.ApprovalMethods{GithubReview: true}

	got, err := Filter(reviews, nil, nil, methods, match.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Filter = %+v; want the review to survive with no deployment bound", got)
	}
}

func TestFilter_SelfReviewExcluded(t *testing.T) {
	commits := []policytypes.Commit{
		{SHA: "a", Author: &policytypes.Identity{ID: 100, Login: "mallory"}, Committer: &policytypes.Identity{ID: 100, Login: "mallory"}},
	}
	reviews := []policytypes.Review{
		{ID: 1, User: policytypes.Identity{ID: 100, Login: "mallory"}, State: policytypes.ReviewStateApproved},
		{ID: 2, User: policytypes.Identity{ID: 200, Login: "alice"}, State: policytypes.ReviewStateApproved},
	}
	methods := &policytypes.ApprovalMethods{GithubReview: true}

	got, err := Filter(reviews, commits, nil, methods, match.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].User.Login != "alice" {
		t.Fatalf("Filter = %+v; want only alice's review to survive", got)
	}
}

func TestFilter_GithubReviewMethod(t *testing.T) {
	reviews := []policytypes.Review{
		{ID: 1, User: policytypes.Identity{ID: 1, Login: "alice"}, State: policytypes.ReviewStateApproved},
		{ID: 2, User: policytypes.Identity{ID: 2, Login: "bob"}, State: policytypes.ReviewStateChangesRequested},
	}
	methods := &policytypes.ApprovalMethods{GithubReview: true}

	got, err := Filter(reviews, nil, nil, methods, match.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].User.Login != "alice" {
		t.Fatalf("Filter = %+v; want only the APPROVED review", got)
	}
}

func TestFilter_CommentPatternMethod(t *testing.T) {
	reviews := []policytypes.Review{
		{ID: 1, User: policytypes.Identity{ID: 1, Login: "alice"}, State: policytypes.ReviewStateCommented, Body: "LGTM"},
		{ID: 2, User: policytypes.Identity{ID: 2, Login: "bob"}, State: policytypes.ReviewStateCommented, Body: "needs work"},
	}
	methods := &policytypes.ApprovalMethods{GithubReviewCommentPatterns: []string{"/^lgtm$/i"}}

	got, err := Filter(reviews, nil, nil, methods, match.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].User.Login != "alice" {
		t.Fatalf("Filter = %+v; want only alice's LGTM comment", got)
	}
}

func TestFilter_NoMethodsConfiguredRejectsEverything(t *testing.T) {
	reviews := []policytypes.Review{
		{ID: 1, User: policytypes.Identity{ID: 1, Login: "alice"}, State: policytypes.ReviewStateApproved},
	}

	got, err := Filter(reviews, nil, nil, nil, match.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Filter = %+v; want no reviews when no method is configured", got)
	}
}

func TestFilter_CommentWithoutPatternsDoesNotMatch(t *testing.T) {
	reviews := []policytypes.Review{
		{ID: 1, User: policytypes.Identity{ID: 1, Login: "alice"}, State: policytypes.ReviewStateCommented, Body: "LGTM"},
	}
	methods := &policytypes.ApprovalMethods{GithubReview: true}

	got, err := Filter(reviews, nil, nil, methods, match.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Filter = %+v; want no reviews, github_review doesn't match COMMENTED", got)
	}
}
