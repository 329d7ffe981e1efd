package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "corpstats/pkg/domain"
)

func allianceID(v int64) *id.AllianceID {
	a := id.AllianceID(v)
	return &a
}

func testSnapshot(members ...Member) *Snapshot {
	return &Snapshot{
		ID:          id.NewSnapshotID(),
		Corporation: Corporation{ID: 2, Name: "test corp", AllianceID: allianceID(3)},
		Members:     members,
	}
}

func TestSnapshot_MemberCount(t *testing.T) {
	s := testSnapshot(Member{CharacterID: 2, CharacterName: "old test character"})
	assert.Equal(t, 1, s.MemberCount())

	s.Members = nil
	assert.Equal(t, 0, s.MemberCount())
}

func TestSnapshot_UserCount(t *testing.T) {
	main := &CharacterRef{ID: 4, Name: "another test character"}

	t.Run("members with a main count once per user", func(t *testing.T) {
		s := testSnapshot(
			Member{CharacterID: 4, Registered: true, MainCharacter: main, IsMain: true},
			Member{CharacterID: 5, Registered: true, MainCharacter: main},
			Member{CharacterID: 6, Registered: true, MainCharacter: &CharacterRef{ID: 9}},
		)
		assert.Equal(t, 2, s.UserCount())
		assert.LessOrEqual(t, s.UserCount(), s.MemberCount())
	})

	t.Run("members without a main are not users", func(t *testing.T) {
		s := testSnapshot(Member{CharacterID: 4, Registered: true})
		assert.Equal(t, 0, s.UserCount())
	})
}

func TestSnapshot_RegisteredMembers(t *testing.T) {
	member := Member{CharacterID: 4, CharacterName: "another test character", Registered: true}
	s := testSnapshot(member)

	assert.Contains(t, s.RegisteredMembers(), member)
	assert.Equal(t, 1, s.RegisteredMemberCount())
	assert.NotContains(t, s.UnregisteredMembers(), member)
	assert.Equal(t, 0, s.UnregisteredMemberCount())

	member.Registered = false
	s.Members = []Member{member}

	assert.NotContains(t, s.RegisteredMembers(), member)
	assert.Equal(t, 0, s.RegisteredMemberCount())
	assert.Contains(t, s.UnregisteredMembers(), member)
	assert.Equal(t, 1, s.UnregisteredMemberCount())
}

func TestSnapshot_UnregisteredMembersSortedByName(t *testing.T) {
	s := testSnapshot(
		Member{CharacterID: 3, CharacterName: "charlie"},
		Member{CharacterID: 1, CharacterName: "Alpha"},
		Member{CharacterID: 4, CharacterName: "Delta", Registered: true},
		Member{CharacterID: 2, CharacterName: "bravo"},
	)

	var names []string
	for _, m := range s.UnregisteredMembers() {
		names = append(names, m.CharacterName)
	}
	assert.Equal(t, []string{"Alpha", "bravo", "charlie"}, names)
}

func TestSnapshot_Mains(t *testing.T) {
	ref := &CharacterRef{ID: 4}
	member := Member{CharacterID: 4, Registered: true, MainCharacter: ref, IsMain: true}
	s := testSnapshot(member)

	assert.Contains(t, s.Mains(), member)
	assert.Equal(t, 1, s.MainCount())

	member.IsMain = false
	s.Members = []Member{member}
	assert.NotContains(t, s.Mains(), member)
	assert.Equal(t, 0, s.MainCount())
}

func TestSnapshot_MainsAreRegistered(t *testing.T) {
	ref := &CharacterRef{ID: 1}
	s := testSnapshot(
		Member{CharacterID: 1, Registered: true, MainCharacter: ref, IsMain: true},
		Member{CharacterID: 2, Registered: true, MainCharacter: ref},
		Member{CharacterID: 3},
	)
	for _, m := range s.Mains() {
		assert.True(t, m.Registered)
	}
	assert.LessOrEqual(t, s.MainCount(), s.RegisteredMemberCount())
}

func TestSnapshot_Alts(t *testing.T) {
	ref := &CharacterRef{ID: 1, Name: "test character"}
	main := Member{CharacterID: 1, Registered: true, MainCharacter: ref, IsMain: true}
	alt := Member{CharacterID: 2, Registered: true, MainCharacter: ref}
	s := testSnapshot(main, alt, Member{CharacterID: 3})

	alts := s.Alts(main)
	require.Len(t, alts, 1)
	assert.Equal(t, id.CharacterID(2), alts[0].CharacterID)
	assert.Nil(t, s.Alts(alt), "alts only hang off mains")
}

func TestSnapshot_SearchMembers(t *testing.T) {
	s := testSnapshot(
		Member{CharacterID: 1, CharacterName: "Test Character"},
		Member{CharacterID: 2, CharacterName: "Other Pilot"},
	)
	got := s.SearchMembers("  test ")
	require.Len(t, got, 1)
	assert.Equal(t, id.CharacterID(1), got[0].CharacterID)
	assert.Empty(t, s.SearchMembers(""))
}

func TestSnapshot_ImageURLs(t *testing.T) {
	s := testSnapshot(Member{CharacterID: 2})
	assert.Equal(t, "https://image.eveonline.com/Corporation/2_128.png", s.CorpLogo(128))
	assert.Equal(t, "https://image.eveonline.com/Alliance/3_128.png", s.AllianceLogo(128))
	assert.Equal(t, "https://image.eveonline.com/Character/2_32.jpg", s.Members[0].PortraitURL(32))

	s.Corporation.AllianceID = nil
	assert.Empty(t, s.AllianceLogo(128))
}
