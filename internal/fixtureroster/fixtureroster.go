// Package fixtureroster is a file-backed identity.RosterSource used by
// the CLI harness in place of a live hosting-provider API. Production
// callers implement identity.RosterSource against their own API client
// instead; this package exists only so deploynautctl can evaluate a
// policy against local fixtures without network access.
package fixtureroster

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/absurd-party/deploynaut/internal/identity"
)

// Rosters is the on-disk fixture shape: organization logins, and team
// logins keyed by "org/slug".
type Rosters struct {
	Organizations map[string][]string `json:"organizations"`
	Teams         map[string][]string `json:"teams"`
}

// Source serves Rosters as an identity.RosterSource.
type Source struct {
	rosters Rosters
}

// Load reads a roster fixture file. A missing file yields an empty,
// always-empty-membership source rather than an error, since rosters
// are optional when a policy only uses user lists.
func Load(path string) (*Source, error) {
	if path == "" {
		return &Source{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Source{}, nil
		}
		return nil, fmt.Errorf("read roster fixture: %w", err)
	}
	var rosters Rosters
	if err := json.Unmarshal(data, &rosters); err != nil {
		return nil, fmt.Errorf("decode roster fixture: %w", err)
	}
	return &Source{rosters: rosters}, nil
}

func (s *Source) ListOrganizationMembers(_ context.Context, org string) ([]identity.Member, error) {
	return toMembers(s.rosters.Organizations[org]), nil
}

func (s *Source) ListTeamMembers(_ context.Context, org, slug string) ([]identity.Member, error) {
	return toMembers(s.rosters.Teams[org+"/"+slug]), nil
}

func toMembers(logins []string) []identity.Member {
	members := make([]identity.Member, 0, len(logins))
	for _, login := range logins {
		members = append(members, identity.Member{Login: login})
	}
	return members
}
