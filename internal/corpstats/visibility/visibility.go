// Package visibility decides which snapshots and alliances a principal may read.
//
// Each view permission is a tier with its own snapshot predicate and alliance
// yield. Tiers are evaluated independently and their results unioned; a
// principal holding no tier sees nothing. Evaluation is pure: callers pass the
// principal's current grant data and the candidate snapshots, and must reload
// the principal after any grant change.
package visibility

import (
	"corpstats/internal/corpstats/models"
	id "corpstats/pkg/domain"
	"corpstats/pkg/platform/sets"
)

type tier struct {
	permission models.Permission
	// snapshot reports whether the tier exposes s to p.
	snapshot func(p *models.Principal, s *models.Snapshot) bool
	// alliances yields the alliance listings the tier exposes to p.
	alliances func(p *models.Principal) []id.AllianceID
}

var tiers = []tier{
	{
		permission: models.PermissionViewCorp,
		snapshot:   ownCorporation,
		alliances:  func(*models.Principal) []id.AllianceID { return nil },
	},
	{
		permission: models.PermissionViewAlliance,
		snapshot:   ownAlliance,
		alliances:  mainAlliance,
	},
	{
		permission: models.PermissionViewState,
		snapshot:   enrolledState,
		alliances:  stateAlliances,
	},
}

// VisibleSnapshots returns the subset of all that p may read, in input order.
func VisibleSnapshots(p *models.Principal, all []*models.Snapshot) []*models.Snapshot {
	if p == nil {
		return nil
	}
	if p.IsSuperuser {
		return append([]*models.Snapshot(nil), all...)
	}
	active := activeTiers(p)
	if len(active) == 0 {
		return nil
	}
	var out []*models.Snapshot
	for _, s := range all {
		for _, t := range active {
			if t.snapshot(p, s) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// CanView reports whether p may read s.
func CanView(p *models.Principal, s *models.Snapshot) bool {
	return len(VisibleSnapshots(p, []*models.Snapshot{s})) == 1
}

// VisibleAllianceIDs returns the alliances whose listing p may read. Unlike
// snapshot visibility this does not require a snapshot for the alliance to exist.
// Superusers see every alliance referenced by a snapshot, their main or their states.
func VisibleAllianceIDs(p *models.Principal, all []*models.Snapshot) []id.AllianceID {
	if p == nil {
		return nil
	}
	out := make(sets.Set[id.AllianceID])
	if p.IsSuperuser {
		for _, s := range all {
			if s.Corporation.AllianceID != nil {
				out.Add(*s.Corporation.AllianceID)
			}
		}
		out.Add(mainAlliance(p)...)
		out.Add(stateAlliances(p)...)
		return sets.Sorted(out)
	}
	for _, t := range activeTiers(p) {
		out.Add(t.alliances(p)...)
	}
	return sets.Sorted(out)
}

func activeTiers(p *models.Principal) []tier {
	active := make([]tier, 0, len(tiers))
	for _, t := range tiers {
		if p.HasPermission(t.permission) {
			active = append(active, t)
		}
	}
	return active
}

func ownCorporation(p *models.Principal, s *models.Snapshot) bool {
	return p.MainCharacter != nil && s.Corporation.ID == p.MainCharacter.CorporationID
}

func ownAlliance(p *models.Principal, s *models.Snapshot) bool {
	if p.MainCharacter == nil || p.MainCharacter.AllianceID == nil {
		return false
	}
	return s.Corporation.InAlliance(*p.MainCharacter.AllianceID)
}

func enrolledState(p *models.Principal, s *models.Snapshot) bool {
	for _, st := range p.States {
		for _, corp := range st.MemberCorporations {
			if corp == s.Corporation.ID {
				return true
			}
		}
		for _, alliance := range st.MemberAlliances {
			if s.Corporation.InAlliance(alliance) {
				return true
			}
		}
	}
	return false
}

func mainAlliance(p *models.Principal) []id.AllianceID {
	if p.MainCharacter == nil || p.MainCharacter.AllianceID == nil {
		return nil
	}
	return []id.AllianceID{*p.MainCharacter.AllianceID}
}

func stateAlliances(p *models.Principal) []id.AllianceID {
	var out []id.AllianceID
	for _, st := range p.States {
		out = append(out, st.MemberAlliances...)
	}
	return out
}
