package models

import (
	"fmt"
	"time"

	id "corpstats/pkg/domain"
)

// Corporation is the public description of a snapshot's parent entity.
type Corporation struct {
	ID             id.CorporationID `json:"corporation_id"`
	Name           string           `json:"corporation_name"`
	Ticker         string           `json:"corporation_ticker"`
	MemberCount    int              `json:"member_count"`
	AllianceID     *id.AllianceID   `json:"alliance_id,omitempty"`
	AllianceName   string           `json:"alliance_name,omitempty"`
	AllianceTicker string           `json:"alliance_ticker,omitempty"`
}

// InAlliance reports whether the corporation belongs to alliance.
func (c Corporation) InAlliance(alliance id.AllianceID) bool {
	return c.AllianceID != nil && *c.AllianceID == alliance
}

// Token references the credential a snapshot is fetched with. The access token
// itself never lives here; the identity directory hands it to the ESI client.
type Token struct {
	ID            id.TokenID     `json:"token_id"`
	CharacterID   id.CharacterID `json:"character_id"`
	CharacterName string         `json:"character_name"`
	UserID        id.UserID      `json:"user_id"`
}

// Character is a known local identity.
type Character struct {
	ID            id.CharacterID   `json:"character_id"`
	Name          string           `json:"character_name"`
	CorporationID id.CorporationID `json:"corporation_id"`
	AllianceID    *id.AllianceID   `json:"alliance_id,omitempty"`
}

// CharacterRef is a weak reference to a main character: a lookup key plus the
// name captured at the last sync. Members never own the referenced character.
type CharacterRef struct {
	ID   id.CharacterID `json:"character_id"`
	Name string         `json:"character_name"`
}

// Ownership links a character to the local user that owns it.
type Ownership struct {
	CharacterID   id.CharacterID
	UserID        id.UserID
	MainCharacter *CharacterRef
}

// Snapshot is the stored roster of one corporation, fetched with one token.
//
// Invariants:
//   - Members are unique by CharacterID
//   - Corporation.ID equals the corporation the token's character belongs to;
//     reconciliation deletes the snapshot when that stops being true
//   - Deleting a snapshot deletes its members
type Snapshot struct {
	ID          id.SnapshotID `json:"id"`
	Corporation Corporation   `json:"corporation"`
	Token       Token         `json:"token"`
	LastUpdate  time.Time     `json:"last_update"`
	Members     []Member      `json:"members"`
}

func (s *Snapshot) String() string {
	if s.Corporation.Name != "" {
		return s.Corporation.Name
	}
	return fmt.Sprintf("corporation %d", s.Corporation.ID)
}

// Member is one roster row.
type Member struct {
	ID            id.MemberID    `json:"id"`
	CharacterID   id.CharacterID `json:"character_id"`
	CharacterName string         `json:"character_name"`
	LocationID    id.LocationID  `json:"location_id"`
	LocationName  string         `json:"location_name"`
	ShipTypeID    id.TypeID      `json:"ship_type_id"`
	ShipTypeName  string         `json:"ship_type_name"`
	LogonDate     *time.Time     `json:"logon_date,omitempty"`
	LogoffDate    *time.Time     `json:"logoff_date,omitempty"`
	StartDate     *time.Time     `json:"start_date,omitempty"`
	Registered    bool           `json:"registered"`
	MainCharacter *CharacterRef  `json:"main_character,omitempty"`
	IsMain        bool           `json:"is_main"`
}

// MemberRow is one entry of the authoritative member-tracking list.
type MemberRow struct {
	CharacterID id.CharacterID
	ShipTypeID  id.TypeID
	LocationID  id.LocationID
	LogonDate   *time.Time
	LogoffDate  *time.Time
	StartDate   *time.Time
}

// Permission names one grant a principal can hold.
type Permission string

const (
	PermissionViewCorp     Permission = "corpstats.view_corp"
	PermissionViewAlliance Permission = "corpstats.view_alliance"
	PermissionViewState    Permission = "corpstats.view_state"
	PermissionAdd          Permission = "corpstats.add"
)

// State is a group a user is enrolled in, listing its member corporations and alliances.
type State struct {
	ID                 id.StateID
	Name               string
	MemberCorporations []id.CorporationID
	MemberAlliances    []id.AllianceID
}

// Principal is a requesting user with the grant data needed to resolve visibility.
// It is a point-in-time copy; callers load a fresh one after grant changes.
type Principal struct {
	UserID        id.UserID
	IsSuperuser   bool
	Permissions   map[Permission]struct{}
	MainCharacter *Character
	States        []State
}

// HasPermission reports whether the principal holds perm. Superusers hold every permission.
func (p *Principal) HasPermission(perm Permission) bool {
	if p == nil {
		return false
	}
	if p.IsSuperuser {
		return true
	}
	_, ok := p.Permissions[perm]
	return ok
}

// SyncOutcome is the result class of one reconciliation.
type SyncOutcome string

const (
	OutcomeUpdated SyncOutcome = "updated"
	OutcomeRemoved SyncOutcome = "removed"
)

// RemovalReason explains why reconciliation deleted a snapshot.
type RemovalReason string

const (
	ReasonCredentialRevoked      RemovalReason = "credential_revoked"
	ReasonForbidden              RemovalReason = "forbidden"
	ReasonCredentialCorpMismatch RemovalReason = "credential_corp_mismatch"
)

// SyncResult summarizes one reconciliation.
type SyncResult struct {
	SnapshotID    id.SnapshotID
	CorporationID id.CorporationID
	Outcome       SyncOutcome
	Reason        RemovalReason
	Added         int
	Updated       int
	Removed       int
}

// Notification is a message for a user, sent through the notification channel.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Level   string `json:"level"`
}
