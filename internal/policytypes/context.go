package policytypes

import "time"

// Review states recognized by the engine. Any other value is simply not
// matched by either approval method.
const (
	ReviewStateApproved         = "APPROVED"
	ReviewStateChangesRequested = "CHANGES_REQUESTED"
	ReviewStateCommented        = "COMMENTED"
)

// Identity is a hosting-provider user reference. Login comparisons are
// always exact string equality.
type Identity struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Verification carries the hosting provider's pre-computed signature
// verification flag; the engine never verifies signatures itself.
type Verification struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}

// Commit is one commit in the proposed deployment's history.
type Commit struct {
	SHA          string        `json:"sha"`
	Author       *Identity     `json:"author,omitempty"`
	Committer    *Identity     `json:"committer,omitempty"`
	Verification *Verification `json:"verification,omitempty"`
}

// AuthorLogin returns the commit author's login, or "" if absent — which
// never satisfies an IdentitySet.
func (c Commit) AuthorLogin() string {
	if c.Author == nil {
		return ""
	}
	return c.Author.Login
}

// CommitterLogin returns the committer's login, or "" if absent.
func (c Commit) CommitterLogin() string {
	if c.Committer == nil {
		return ""
	}
	return c.Committer.Login
}

// Review is a single review submitted against the change.
type Review struct {
	ID          int64      `json:"id"`
	User        Identity   `json:"user"`
	State       string     `json:"state"`
	Body        string     `json:"body,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CommitID    string     `json:"commit_id"`
}

// EnvironmentInfo names the target deployment environment.
type EnvironmentInfo struct {
	Name string `json:"name"`
}

// DeploymentCommit identifies the commit a deployment is bound to.
type DeploymentCommit struct {
	SHA string `json:"sha"`
}

// Deployment is the in-flight deployment attempt, when one has been
// created. Before binding (PR-level evaluation), this is nil.
type Deployment struct {
	Environment string           `json:"environment,omitempty"`
	Event       string           `json:"event,omitempty"`
	Commit      DeploymentCommit `json:"commit"`
}

// PolicyContext is the input snapshot the engine evaluates a policy
// against: commits, reviews, and the target environment/deployment.
type PolicyContext struct {
	Commits     []Commit         `json:"commits"`
	Reviews     []Review         `json:"reviews"`
	Environment *EnvironmentInfo `json:"environment,omitempty"`
	Deployment  *Deployment      `json:"deployment,omitempty"`
}
