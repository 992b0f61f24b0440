package rule

import (
	"context"
	"testing"

	"github.com/absurd-party/deploynaut/internal/identity"
	"github.com/absurd-party/deploynaut/internal/match"
	"github.com/absurd-party/deploynaut/internal/policytypes"
)

type noRosters struct{}

func (noRosters) ListOrganizationMembers(context.Context, string) ([]identity.Member, error) {
	return nil, nil
}
func (noRosters) ListTeamMembers(context.Context, string, string) ([]identity.Member, error) {
	return nil, nil
}

func newResolver(rules map[string]*policytypes.NamedApprovalRule, snapshot policytypes.PolicyContext) *Resolver {
	return NewResolver(rules, snapshot, identity.NewCache(noRosters{}), match.NewRegistry())
}

func TestEvaluate_UnknownNamedRuleIsConfigError(t *testing.T) {
	r := newResolver(map[string]*policytypes.NamedApprovalRule{}, policytypes.PolicyContext{})
	_, err := r.Evaluate(context.Background(), policytypes.NewNamedRule("missing"))
	if err == nil {
		t.Fatal("expected a configuration error for an unknown rule name")
	}
}

func TestEvaluate_AutomaticallySatisfiedWithoutRequires(t *testing.T) {
	rules := map[string]*policytypes.NamedApprovalRule{
		"always": {Name: "always"},
	}
	r := newResolver(rules, policytypes.PolicyContext{})
	outcome, err := r.Evaluate(context.Background(), policytypes.NewNamedRule("always"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Pass {
		t.Errorf("outcome = %v, want Pass", outcome)
	}
}

func TestEvaluate_ConditionGatesToSkipped(t *testing.T) {
	rules := map[string]*policytypes.NamedApprovalRule{
		"prod-only": {
			Name: "prod-only",
			If:   &policytypes.RuleCondition{Environment: &policytypes.EnvironmentCondition{Matches: []string{"prod"}}},
		},
	}
	snapshot := policytypes.PolicyContext{Environment: &policytypes.EnvironmentInfo{Name: "staging"}}
	r := newResolver(rules, snapshot)
	outcome, err := r.Evaluate(context.Background(), policytypes.NewNamedRule("prod-only"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Skipped {
		t.Errorf("outcome = %v, want Skipped", outcome)
	}
}

func TestAndGroup_SkippedChildIsDiscarded(t *testing.T) {
	rules := map[string]*policytypes.NamedApprovalRule{
		"ruleA": {Name: "ruleA"},
		"ruleB": {
			Name: "ruleB",
			If:   &policytypes.RuleCondition{Environment: &policytypes.EnvironmentCondition{Matches: []string{"prod"}}},
		},
	}
	snapshot := policytypes.PolicyContext{Environment: &policytypes.EnvironmentInfo{Name: "staging"}}
	r := newResolver(rules, snapshot)
	group := policytypes.NewAndRule(policytypes.NewNamedRule("ruleA"), policytypes.NewNamedRule("ruleB"))
	outcome, err := r.Evaluate(context.Background(), group)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Pass {
		t.Errorf("outcome = %v, want Pass (skipped sibling dropped)", outcome)
	}
}

func TestGroup_AllSkippedIsSkipped(t *testing.T) {
	rules := map[string]*policytypes.NamedApprovalRule{
		"prod-only": {
			Name: "prod-only",
			If:   &policytypes.RuleCondition{Environment: &policytypes.EnvironmentCondition{Matches: []string{"prod"}}},
		},
	}
	snapshot := policytypes.PolicyContext{Environment: &policytypes.EnvironmentInfo{Name: "staging"}}
	r := newResolver(rules, snapshot)

	and := policytypes.NewAndRule(policytypes.NewNamedRule("prod-only"))
	or := policytypes.NewOrRule(policytypes.NewNamedRule("prod-only"))

	for _, group := range []policytypes.ApprovalRule{and, or} {
		outcome, err := r.Evaluate(context.Background(), group)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != Skipped {
			t.Errorf("outcome = %v, want Skipped", outcome)
		}
	}
}

func TestReduction_IsCommutativeOverSkipped(t *testing.T) {
	tests := []struct {
		name string
		a, b []Outcome
	}{
		{"and: pass,skipped vs skipped,pass", []Outcome{Pass, Skipped}, []Outcome{Skipped, Pass}},
		{"or: fail,skipped vs skipped,fail", []Outcome{Fail, Skipped}, []Outcome{Skipped, Fail}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if reduceAnd(tt.a) != reduceAnd(tt.b) {
				t.Errorf("reduceAnd not commutative: %v vs %v", tt.a, tt.b)
			}
			if reduceOr(tt.a) != reduceOr(tt.b) {
				t.Errorf("reduceOr not commutative: %v vs %v", tt.a, tt.b)
			}
		})
	}
}

func TestUnknownRuleKindFails(t *testing.T) {
	r := newResolver(map[string]*policytypes.NamedApprovalRule{}, policytypes.PolicyContext{})
	var unknown policytypes.ApprovalRule // zero value: KindUnknown
	outcome, err := r.Evaluate(context.Background(), unknown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Fail {
		t.Errorf("outcome = %v, want Fail for an unknown rule shape", outcome)
	}
}
