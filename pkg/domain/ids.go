// Package domain holds the typed identifiers shared across corpstats packages.
//
// EVE identifiers are 64-bit integers assigned by the game; local identifiers
// (users, tokens, snapshots) are issued by this system. Keeping them as distinct
// named types prevents a corporation ID being passed where a character ID is
// expected.
package domain

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	dErrors "corpstats/pkg/domain-errors"
)

type (
	CharacterID   int64
	CorporationID int64
	AllianceID    int64
	TypeID        int64
	LocationID    int64
	UserID        int64
	TokenID       int64
	StateID       int64
)

// SnapshotID identifies a stored corporation roster.
type SnapshotID uuid.UUID

// MemberID identifies one roster row. It survives in-place updates.
type MemberID uuid.UUID

func NewSnapshotID() SnapshotID { return SnapshotID(uuid.New()) }
func NewMemberID() MemberID     { return MemberID(uuid.New()) }

func (id SnapshotID) String() string { return uuid.UUID(id).String() }
func (id SnapshotID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id MemberID) String() string   { return uuid.UUID(id).String() }

func (id CharacterID) String() string   { return strconv.FormatInt(int64(id), 10) }
func (id CorporationID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id AllianceID) String() string    { return strconv.FormatInt(int64(id), 10) }

// ParseSnapshotID parses a snapshot identifier at a trust boundary.
func ParseSnapshotID(s string) (SnapshotID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || parsed == uuid.Nil {
		return SnapshotID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid snapshot id")
	}
	return SnapshotID(parsed), nil
}

// ParseCorporationID parses a positive corporation identifier.
func ParseCorporationID(s string) (CorporationID, error) {
	v, err := parsePositive(s)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid corporation id")
	}
	return CorporationID(v), nil
}

// ParseTokenID parses a positive token identifier.
func ParseTokenID(s string) (TokenID, error) {
	v, err := parsePositive(s)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid token id")
	}
	return TokenID(v), nil
}

// ParseUserID parses a positive user identifier.
func ParseUserID(s string) (UserID, error) {
	v, err := parsePositive(s)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid user id")
	}
	return UserID(v), nil
}

func parsePositive(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}
