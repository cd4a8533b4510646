// Package accesspolicy holds the role-lateral visibility table: which roles
// may see into which other roles' private space. The rule is data, not code,
// so deployments can reshape it without touching the resolver.
package accesspolicy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy maps a viewer role to the set of owner roles it may see into.
// Visibility is one-way and non-transitive; it is a role privilege, not a
// per-object share, and is evaluated with a single owner-role lookup.
type Policy struct {
	visibility map[string]map[string]bool
}

// Default returns the stock policy: staff may view student-owned folders.
func Default() *Policy {
	return New(map[string][]string{
		"staff": {"student"},
	})
}

// New builds a policy from a viewer-role -> owner-roles table.
func New(table map[string][]string) *Policy {
	vis := make(map[string]map[string]bool, len(table))
	for viewer, owners := range table {
		set := make(map[string]bool, len(owners))
		for _, o := range owners {
			set[o] = true
		}
		vis[viewer] = set
	}
	return &Policy{visibility: vis}
}

// policyFile is the on-disk shape:
//
//	visibility:
//	  staff: [student]
type policyFile struct {
	Visibility map[string][]string `yaml:"visibility"`
}

// LoadFile reads a policy table from a YAML file.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}

	return New(pf.Visibility), nil
}

// CanView reports whether viewerRole has blanket visibility into content
// owned by ownerRole.
func (p *Policy) CanView(viewerRole, ownerRole string) bool {
	return p.visibility[viewerRole][ownerRole]
}

// HasLateralAccess reports whether viewerRole can see into anyone at all,
// letting the resolver skip the owner-role lookup entirely for roles with no
// lateral privileges.
func (p *Policy) HasLateralAccess(viewerRole string) bool {
	return len(p.visibility[viewerRole]) > 0
}
