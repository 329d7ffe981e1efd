package models

import (
	"fmt"
	"slices"
	"strings"

	id "corpstats/pkg/domain"
)

const imageServer = "https://image.eveonline.com"

// MemberCount is the number of roster rows.
func (s *Snapshot) MemberCount() int {
	return len(s.Members)
}

// UserCount counts distinct users on the roster, identified by their main
// character. Unregistered members and members whose user has no main are not counted.
func (s *Snapshot) UserCount() int {
	mains := make(map[id.CharacterID]struct{})
	for _, m := range s.Members {
		if m.MainCharacter != nil {
			mains[m.MainCharacter.ID] = struct{}{}
		}
	}
	return len(mains)
}

func (s *Snapshot) RegisteredMembers() []Member {
	return s.filter(func(m Member) bool { return m.Registered })
}

func (s *Snapshot) RegisteredMemberCount() int {
	return len(s.RegisteredMembers())
}

func (s *Snapshot) UnregisteredMembers() []Member {
	return s.filter(func(m Member) bool { return !m.Registered })
}

func (s *Snapshot) UnregisteredMemberCount() int {
	return len(s.UnregisteredMembers())
}

// Mains returns members that are their user's designated main character.
func (s *Snapshot) Mains() []Member {
	return s.filter(func(m Member) bool { return m.IsMain })
}

func (s *Snapshot) MainCount() int {
	return len(s.Mains())
}

// Alts returns the other roster members owned by main's user. Only main
// members have alts.
func (s *Snapshot) Alts(main Member) []Member {
	if !main.IsMain {
		return nil
	}
	return s.filter(func(m Member) bool {
		return m.Registered && m.MainCharacter != nil &&
			m.MainCharacter.ID == main.CharacterID && m.CharacterID != main.CharacterID
	})
}

// Member finds a roster row by character.
func (s *Snapshot) Member(characterID id.CharacterID) (Member, bool) {
	for _, m := range s.Members {
		if m.CharacterID == characterID {
			return m, true
		}
	}
	return Member{}, false
}

// SearchMembers returns members whose name contains query, case-insensitively.
func (s *Snapshot) SearchMembers(query string) []Member {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return s.filter(func(m Member) bool {
		return strings.Contains(strings.ToLower(m.CharacterName), q)
	})
}

func (s *Snapshot) CorpLogo(size int) string {
	return fmt.Sprintf("%s/Corporation/%d_%d.png", imageServer, s.Corporation.ID, size)
}

// AllianceLogo is empty when the corporation has no alliance.
func (s *Snapshot) AllianceLogo(size int) string {
	if s.Corporation.AllianceID == nil {
		return ""
	}
	return fmt.Sprintf("%s/Alliance/%d_%d.png", imageServer, *s.Corporation.AllianceID, size)
}

func (m Member) PortraitURL(size int) string {
	return fmt.Sprintf("%s/Character/%d_%d.jpg", imageServer, m.CharacterID, size)
}

func (s *Snapshot) filter(keep func(Member) bool) []Member {
	out := make([]Member, 0, len(s.Members))
	for _, m := range s.Members {
		if keep(m) {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b Member) int {
		return strings.Compare(strings.ToLower(a.CharacterName), strings.ToLower(b.CharacterName))
	})
	return out
}
