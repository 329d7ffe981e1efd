package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	id "corpstats/pkg/domain"
	"corpstats/pkg/platform/sentinel"
)

func newSnapshot(corpID id.CorporationID, name string) *models.Snapshot {
	return &models.Snapshot{
		Corporation: models.Corporation{ID: corpID, Name: name, Ticker: "TCK"},
		Token:       models.Token{ID: 1, CharacterID: 90000001, UserID: 7},
	}
}

func seed(t *testing.T, store *InMemoryStore, snapshotID id.SnapshotID, characterIDs ...id.CharacterID) {
	t.Helper()
	members := make([]models.Member, 0, len(characterIDs))
	for _, characterID := range characterIDs {
		members = append(members, models.Member{CharacterID: characterID, CharacterName: characterID.String()})
	}
	err := store.RunInTx(context.Background(), func(tx ports.MemberTx) error {
		return tx.UpsertMembers(context.Background(), snapshotID, members)
	})
	require.NoError(t, err)
}

func TestSaveAssignsIDAndUpsertsByCorporation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	first, err := store.Save(ctx, newSnapshot(1000, "Alpha"))
	require.NoError(t, err)
	assert.False(t, first.ID.IsNil())

	replacement := newSnapshot(1000, "Alpha Renamed")
	replacement.Token.ID = 2
	second, err := store.Save(ctx, replacement)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, id.TokenID(2), second.Token.ID)
	assert.Equal(t, "Alpha Renamed", second.Corporation.Name)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateRefusesTrackedCorporation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	first, err := store.Create(ctx, newSnapshot(1000, "Alpha"))
	require.NoError(t, err)
	seed(t, store, first.ID, 1, 2)

	other := newSnapshot(1000, "Alpha")
	other.Token = models.Token{ID: 9, CharacterID: 90000009, UserID: 8}
	_, err = store.Create(ctx, other)
	require.ErrorIs(t, err, sentinel.ErrConflict)

	kept, err := store.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, id.TokenID(1), kept.Token.ID)
	assert.Len(t, kept.Members, 2)
}

func TestRunInTxDiscardsAfterContextEnds(t *testing.T) {
	store := NewInMemory()
	saved, err := store.Create(context.Background(), newSnapshot(1000, "Alpha"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	err = store.RunInTx(ctx, func(tx ports.MemberTx) error {
		cancel()
		return tx.UpsertMembers(ctx, saved.ID, []models.Member{{CharacterID: 1}})
	})
	require.ErrorIs(t, err, context.Canceled)

	reloaded, err := store.FindByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Members)
}

func TestFindAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	saved, err := store.Save(ctx, newSnapshot(1000, "Alpha"))
	require.NoError(t, err)
	seed(t, store, saved.ID, 1, 2)

	byCorp, err := store.FindByCorporation(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byCorp.ID)
	assert.Len(t, byCorp.Members, 2)

	require.NoError(t, store.Delete(ctx, saved.ID))

	_, err = store.FindByID(ctx, saved.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	_, err = store.FindByCorporation(ctx, 1000)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, saved.ID), sentinel.ErrNotFound)
}

func TestListOrdersByCorporationName(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	for corpID, name := range map[id.CorporationID]string{3: "Charlie", 1: "Alpha", 2: "Bravo"} {
		_, err := store.Save(ctx, newSnapshot(corpID, name))
		require.NoError(t, err)
	}

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alpha", all[0].Corporation.Name)
	assert.Equal(t, "Bravo", all[1].Corporation.Name)
	assert.Equal(t, "Charlie", all[2].Corporation.Name)
}

func TestRunInTxPreservesMemberIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	saved, err := store.Save(ctx, newSnapshot(1000, "Alpha"))
	require.NoError(t, err)
	seed(t, store, saved.ID, 1, 2, 3)

	before, err := store.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	ids := map[id.CharacterID]id.MemberID{}
	for _, m := range before.Members {
		ids[m.CharacterID] = m.ID
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err = store.RunInTx(ctx, func(tx ports.MemberTx) error {
		if err := tx.DeleteMembers(ctx, saved.ID, []id.CharacterID{1}); err != nil {
			return err
		}
		if err := tx.UpsertMembers(ctx, saved.ID, []models.Member{
			{CharacterID: 2, CharacterName: "two"},
			{CharacterID: 3, CharacterName: "three"},
			{CharacterID: 4, CharacterName: "four"},
		}); err != nil {
			return err
		}
		return tx.SetLastUpdate(ctx, saved.ID, now)
	})
	require.NoError(t, err)

	after, err := store.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, after.Members, 3)
	assert.Equal(t, id.CharacterID(2), after.Members[0].CharacterID)
	assert.Equal(t, ids[2], after.Members[0].ID)
	assert.Equal(t, "two", after.Members[0].CharacterName)
	assert.Equal(t, ids[3], after.Members[1].ID)
	assert.Equal(t, id.CharacterID(4), after.Members[2].CharacterID)
	assert.NotEqual(t, id.MemberID{}, after.Members[2].ID)
	assert.Equal(t, now, after.LastUpdate)
}

func TestRunInTxDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	saved, err := store.Save(ctx, newSnapshot(1000, "Alpha"))
	require.NoError(t, err)
	seed(t, store, saved.ID, 1, 2)

	boom := errors.New("boom")
	err = store.RunInTx(ctx, func(tx ports.MemberTx) error {
		if err := tx.DeleteMembers(ctx, saved.ID, []id.CharacterID{1, 2}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	after, err := store.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Len(t, after.Members, 2)
}

func TestRunInTxUnknownSnapshot(t *testing.T) {
	store := NewInMemory()
	err := store.RunInTx(context.Background(), func(tx ports.MemberTx) error {
		return tx.SetLastUpdate(context.Background(), id.NewSnapshotID(), time.Now())
	})
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestReturnedSnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	saved, err := store.Save(ctx, newSnapshot(1000, "Alpha"))
	require.NoError(t, err)
	seed(t, store, saved.ID, 1)

	got, err := store.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	got.Members[0].CharacterName = "mutated"

	again, err := store.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", again.Members[0].CharacterName)
}
