// Package policytypes holds the declarative policy document types (the
// YAML-configured side) and the policy context snapshot types (the
// JSON-decoded side).
package policytypes

import (
	"fmt"

	"github.com/absurd-party/deploynaut/internal/policyerr"
)

// PolicyConfig is the top-level policy document: an ordered, OR-combined
// list of approval rules plus the set of named rules they may reference.
type PolicyConfig struct {
	Policy        PolicySection       `yaml:"policy"`
	ApprovalRules []NamedApprovalRule `yaml:"approval_rules"`
}

// PolicySection holds the top-level rule list combined with OR.
type PolicySection struct {
	Approval []ApprovalRule `yaml:"approval"`
}

// NamedApprovalRule is a reusable, named rule definition.
type NamedApprovalRule struct {
	Name     string               `yaml:"name"`
	If       *RuleCondition       `yaml:"if,omitempty"`
	Requires *ApprovalRequirement `yaml:"requires,omitempty"`
	Methods  *ApprovalMethods     `yaml:"methods,omitempty"`
}

// RuleCondition gates a named rule: every specified predicate must hold.
type RuleCondition struct {
	Environment          *EnvironmentCondition `yaml:"environment,omitempty"`
	HasValidSignaturesBy *IdentitySet          `yaml:"has_valid_signatures_by,omitempty"`
	WasAuthoredBy        *IdentitySet          `yaml:"was_authored_by,omitempty"`
}

// EnvironmentCondition whitelists/blacklists target environment names.
type EnvironmentCondition struct {
	Matches    []string `yaml:"matches,omitempty"`
	NotMatches []string `yaml:"not_matches,omitempty"`
}

// ApprovalRequirement is a threshold of authorized approving reviews.
type ApprovalRequirement struct {
	Count         int      `yaml:"count"`
	Users         []string `yaml:"users,omitempty"`
	Organizations []string `yaml:"organizations,omitempty"`
	Teams         []string `yaml:"teams,omitempty"`
}

// Identities returns the requirement's authorization set.
func (r *ApprovalRequirement) Identities() IdentitySet {
	if r == nil {
		return IdentitySet{}
	}
	return IdentitySet{Users: r.Users, Organizations: r.Organizations, Teams: r.Teams}
}

// IdentitySet is a union of user logins, organizations, and teams
// (formatted "org/slug").
type IdentitySet struct {
	Users         []string `yaml:"users,omitempty"`
	Organizations []string `yaml:"organizations,omitempty"`
	Teams         []string `yaml:"teams,omitempty"`
}

// ApprovalMethods configures which review mechanisms count as approving.
type ApprovalMethods struct {
	GithubReview                bool     `yaml:"github_review,omitempty"`
	GithubReviewCommentPatterns []string `yaml:"github_review_comment_patterns,omitempty"`
}

// RuleMap indexes approval_rules by name, rejecting duplicates as a
// configuration error.
func (c *PolicyConfig) RuleMap() (map[string]*NamedApprovalRule, error) {
	rules := make(map[string]*NamedApprovalRule, len(c.ApprovalRules))
	for i := range c.ApprovalRules {
		rule := &c.ApprovalRules[i]
		if rule.Name == "" {
			return nil, policyerr.NewConfigError("approval_rules", fmt.Errorf("rule at index %d has no name", i))
		}
		if _, exists := rules[rule.Name]; exists {
			return nil, policyerr.NewConfigError("approval_rules", fmt.Errorf("duplicate rule name %q", rule.Name))
		}
		rules[rule.Name] = rule
	}
	return rules, nil
}
