// Package identity implements the membership resolver: deciding
// whether a login belongs to a users/organizations/teams IdentitySet,
// with a per-evaluation, single-flight-coalesced roster cache.
package identity

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/absurd-party/deploynaut/internal/policyerr"
)

// Member is one entry in an organization or team roster.
type Member struct {
	Login string
}

// RosterSource is the host-supplied callable pair the core depends on:
// fetching organization and team rosters from whatever hosting-provider
// API the caller wires in.
type RosterSource interface {
	ListOrganizationMembers(ctx context.Context, org string) ([]Member, error)
	ListTeamMembers(ctx context.Context, org, slug string) ([]Member, error)
}

// Cache memoizes roster lookups for the duration of one evaluation,
// coalescing concurrent fetches for the same key via singleflight so
// sibling rule evaluations never issue duplicate requests.
type Cache struct {
	source RosterSource
	flight singleflight.Group

	mu          sync.Mutex
	orgRosters  map[string][]Member
	teamRosters map[string][]Member
}

// NewCache wraps source with a fresh, empty per-evaluation cache.
func NewCache(source RosterSource) *Cache {
	return &Cache{
		source:      source,
		orgRosters:  make(map[string][]Member),
		teamRosters: make(map[string][]Member),
	}
}

func (c *Cache) organizationMembers(ctx context.Context, org string) ([]Member, error) {
	c.mu.Lock()
	members, ok := c.orgRosters[org]
	c.mu.Unlock()
	if ok {
		return members, nil
	}
	key := "org:" + org
	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		members, err := c.source.ListOrganizationMembers(ctx, org)
		if err != nil {
			return nil, policyerr.NewFetchError(org, "", err)
		}
		return members, nil
	})
	if err != nil {
		return nil, err
	}
	members = v.([]Member)
	c.mu.Lock()
	c.orgRosters[org] = members
	c.mu.Unlock()
	return members, nil
}

func (c *Cache) teamMembers(ctx context.Context, org, slug string) ([]Member, error) {
	key := org + "/" + slug
	c.mu.Lock()
	members, ok := c.teamRosters[key]
	c.mu.Unlock()
	if ok {
		return members, nil
	}
	v, err, _ := c.flight.Do("team:"+key, func() (interface{}, error) {
		members, err := c.source.ListTeamMembers(ctx, org, slug)
		if err != nil {
			return nil, policyerr.NewFetchError(org, slug, err)
		}
		return members, nil
	})
	if err != nil {
		return nil, err
	}
	members = v.([]Member)
	c.mu.Lock()
	c.teamRosters[key] = members
	c.mu.Unlock()
	return members, nil
}

func isMember(members []Member, login string) bool {
	for _, m := range members {
		if m.Login == login {
			return true
		}
	}
	return false
}

// IsUserInAny decides whether login belongs to users, any of orgs, or
// any of teams (formatted "org/slug"), short-circuiting on first hit in
// that order.
func (c *Cache) IsUserInAny(ctx context.Context, login string, users, orgs, teams []string) (bool, error) {
	for _, u := range users {
		if u == login {
			return true, nil
		}
	}
	for _, org := range orgs {
		members, err := c.organizationMembers(ctx, org)
		if err != nil {
			return false, err
		}
		if isMember(members, login) {
			return true, nil
		}
	}
	for _, team := range teams {
		org, slug, err := splitTeam(team)
		if err != nil {
			return false, err
		}
		members, err := c.teamMembers(ctx, org, slug)
		if err != nil {
			return false, err
		}
		if isMember(members, login) {
			return true, nil
		}
	}
	return false, nil
}

func splitTeam(team string) (org, slug string, err error) {
	for i := 0; i < len(team); i++ {
		if team[i] == '/' {
			return team[:i], team[i+1:], nil
		}
	}
	return "", "", policyerr.NewConfigError("team identity", fmt.Errorf("team %q is not in \"org/slug\" form", team))
}
