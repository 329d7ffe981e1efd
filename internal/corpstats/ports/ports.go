// Package ports declares the collaborators the corpstats service depends on.
// Adapters live in internal/esi, internal/identity, internal/notify and the
// snapshot stores; tests use the gomock doubles in ./mocks.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"corpstats/internal/corpstats/models"
	id "corpstats/pkg/domain"
)

// RosterSource fetches authoritative membership data with a credential.
type RosterSource interface {
	// CharacterCorporation returns the corporation the token's character currently belongs to.
	CharacterCorporation(ctx context.Context, token models.Token) (id.CorporationID, error)
	// MemberTracking returns the member-tracking list for corporationID.
	MemberTracking(ctx context.Context, token models.Token, corporationID id.CorporationID) ([]models.MemberRow, error)
}

// NameResolver turns identifiers into display names. Batch lookups omit
// identifiers that cannot be resolved instead of failing.
type NameResolver interface {
	CharacterNames(ctx context.Context, ids []id.CharacterID) (map[id.CharacterID]string, error)
	TypeName(ctx context.Context, typeID id.TypeID) (string, error)
	LocationNames(ctx context.Context, token models.Token, ids []id.LocationID) (map[id.LocationID]string, error)
}

// CorporationSource fetches public corporation and alliance descriptions.
type CorporationSource interface {
	Corporation(ctx context.Context, corporationID id.CorporationID) (models.Corporation, error)
}

// IdentityDirectory maps characters to local users.
type IdentityDirectory interface {
	// LookupOwner returns sentinel.ErrNotFound when no local user owns characterID.
	LookupOwner(ctx context.Context, characterID id.CharacterID) (*models.Ownership, error)
	Token(ctx context.Context, tokenID id.TokenID) (*models.Token, error)
	Principal(ctx context.Context, userID id.UserID) (*models.Principal, error)
}

// Notifier delivers a message to a user. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, userID id.UserID, n models.Notification) error
}

// SnapshotStore persists snapshots and their members.
type SnapshotStore interface {
	// Save creates the snapshot or, when one exists for the same corporation,
	// replaces its corporation description and token. Members are untouched.
	Save(ctx context.Context, snapshot *models.Snapshot) (*models.Snapshot, error)
	// Create inserts a snapshot for an untracked corporation. It returns
	// sentinel.ErrConflict when the corporation already has one.
	Create(ctx context.Context, snapshot *models.Snapshot) (*models.Snapshot, error)
	FindByID(ctx context.Context, snapshotID id.SnapshotID) (*models.Snapshot, error)
	FindByCorporation(ctx context.Context, corporationID id.CorporationID) (*models.Snapshot, error)
	List(ctx context.Context) ([]*models.Snapshot, error)
	// Delete removes the snapshot and its members.
	Delete(ctx context.Context, snapshotID id.SnapshotID) error
	// RunInTx applies every member mutation made through tx, or none of them.
	RunInTx(ctx context.Context, fn func(tx MemberTx) error) error
}

// MemberTx is the write surface available inside SnapshotStore.RunInTx.
type MemberTx interface {
	DeleteMembers(ctx context.Context, snapshotID id.SnapshotID, characterIDs []id.CharacterID) error
	// UpsertMembers inserts new rows and updates existing rows in place, keyed by CharacterID.
	UpsertMembers(ctx context.Context, snapshotID id.SnapshotID, members []models.Member) error
	SetLastUpdate(ctx context.Context, snapshotID id.SnapshotID, at time.Time) error
}

// Locker serializes reconciliations of the same snapshot. The returned
// context is derived from ctx and ends no later than the lock's validity;
// work done under the lock must use it. unlock also cancels it.
type Locker interface {
	Lock(ctx context.Context, snapshotID id.SnapshotID) (held context.Context, unlock func(), err error)
}
