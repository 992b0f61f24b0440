package policytypes

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RuleKind distinguishes the shape an ApprovalRule was decoded from.
type RuleKind int

const (
	// KindUnknown marks a rule that failed to decode into any recognized
	// shape; the rule evaluator reduces it to Fail without an error.
	KindUnknown RuleKind = iota
	// KindNamed is a bare string referencing a NamedApprovalRule by name.
	KindNamed
	// KindAnd is a {and: [...]} group.
	KindAnd
	// KindOr is an {or: [...]} group.
	KindOr
	// KindList is a bare ordered list, combined with OR semantics.
	KindList
)

func (k RuleKind) String() string {
	switch k {
	case KindNamed:
		return "named"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// ApprovalRule is the recursive boolean-expression type from policy.approval
// and from and/or group children: a named reference, an AND group, an OR
// group, or a bare list (OR semantics).
type ApprovalRule struct {
	kind     RuleKind
	name     string
	children []ApprovalRule
}

// Kind reports which shape this rule was decoded from.
func (r ApprovalRule) Kind() RuleKind { return r.kind }

// Name returns the referenced rule name; only meaningful for KindNamed.
func (r ApprovalRule) Name() string { return r.name }

// Children returns the group members; only meaningful for KindAnd,
// KindOr, and KindList.
func (r ApprovalRule) Children() []ApprovalRule { return r.children }

// NewNamedRule builds a rule that references a NamedApprovalRule by name.
// Exposed for building rules in code, as the tests do.
func NewNamedRule(name string) ApprovalRule {
	return ApprovalRule{kind: KindNamed, name: name}
}

// NewAndRule builds an AND group.
func NewAndRule(children ...ApprovalRule) ApprovalRule {
	return ApprovalRule{kind: KindAnd, children: children}
}

// NewOrRule builds an OR group.
func NewOrRule(children ...ApprovalRule) ApprovalRule {
	return ApprovalRule{kind: KindOr, children: children}
}

// UnmarshalYAML decodes the three accepted shapes: a scalar (named
// reference), a sequence (bare list, OR semantics), or a mapping with
// exactly one of an "and" or "or" key.
func (r *ApprovalRule) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		*r = ApprovalRule{kind: KindNamed, name: name}
		return nil
	case yaml.SequenceNode:
		var children []ApprovalRule
		if err := node.Decode(&children); err != nil {
			return err
		}
		*r = ApprovalRule{kind: KindList, children: children}
		return nil
	case yaml.MappingNode:
		var raw map[string]yaml.Node
		if err := node.Decode(&raw); err != nil {
			return err
		}
		andNode, hasAnd := raw["and"]
		orNode, hasOr := raw["or"]
		switch {
		case hasAnd && hasOr:
			return fmt.Errorf("approval rule must not set both \"and\" and \"or\"")
		case hasAnd:
			var children []ApprovalRule
			if err := andNode.Decode(&children); err != nil {
				return err
			}
			*r = ApprovalRule{kind: KindAnd, children: children}
			return nil
		case hasOr:
			var children []ApprovalRule
			if err := orNode.Decode(&children); err != nil {
				return err
			}
			*r = ApprovalRule{kind: KindOr, children: children}
			return nil
		default:
			return fmt.Errorf("approval rule mapping must have an \"and\" or \"or\" key")
		}
	default:
		*r = ApprovalRule{kind: KindUnknown}
		return nil
	}
}

// MarshalYAML re-encodes a rule into one of its three accepted shapes.
func (r ApprovalRule) MarshalYAML() (interface{}, error) {
	switch r.kind {
	case KindNamed:
		return r.name, nil
	case KindList:
		return r.children, nil
	case KindAnd:
		return map[string][]ApprovalRule{"and": r.children}, nil
	case KindOr:
		return map[string][]ApprovalRule{"or": r.children}, nil
	default:
		return nil, fmt.Errorf("cannot marshal approval rule of unknown kind")
	}
}
