package snapshot

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	id "corpstats/pkg/domain"
	"corpstats/pkg/platform/sentinel"
)

// InMemoryStore keeps snapshots in process memory. It favors clarity over
// performance and is used by tests and single-node development setups.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[id.SnapshotID]*record
	byCorp    map[id.CorporationID]id.SnapshotID
}

type record struct {
	header  models.Snapshot
	members map[id.CharacterID]models.Member
}

var _ ports.SnapshotStore = (*InMemoryStore)(nil)

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		snapshots: make(map[id.SnapshotID]*record),
		byCorp:    make(map[id.CorporationID]id.SnapshotID),
	}
}

func (s *InMemoryStore) Save(_ context.Context, snapshot *models.Snapshot) (*models.Snapshot, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, ok := s.byCorp[snapshot.Corporation.ID]; ok {
		rec := s.snapshots[existingID]
		rec.header.Corporation = snapshot.Corporation
		rec.header.Token = snapshot.Token
		return rec.snapshot(), nil
	}
	return s.insertLocked(snapshot)
}

func (s *InMemoryStore) Create(_ context.Context, snapshot *models.Snapshot) (*models.Snapshot, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byCorp[snapshot.Corporation.ID]; ok {
		return nil, sentinel.ErrConflict
	}
	return s.insertLocked(snapshot)
}

func (s *InMemoryStore) insertLocked(snapshot *models.Snapshot) (*models.Snapshot, error) {
	header := *snapshot
	header.Members = nil
	if header.ID.IsNil() {
		header.ID = id.NewSnapshotID()
	}
	if _, taken := s.snapshots[header.ID]; taken {
		return nil, sentinel.ErrConflict
	}
	rec := &record{header: header, members: make(map[id.CharacterID]models.Member)}
	for _, m := range snapshot.Members {
		rec.members[m.CharacterID] = withID(cloneMember(m))
	}
	s.snapshots[header.ID] = rec
	s.byCorp[header.Corporation.ID] = header.ID
	return rec.snapshot(), nil
}

func (s *InMemoryStore) FindByID(_ context.Context, snapshotID id.SnapshotID) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.snapshots[snapshotID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rec.snapshot(), nil
}

func (s *InMemoryStore) FindByCorporation(_ context.Context, corporationID id.CorporationID) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshotID, ok := s.byCorp[corporationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.snapshots[snapshotID].snapshot(), nil
}

// List returns every snapshot ordered by corporation name.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Snapshot, 0, len(s.snapshots))
	for _, rec := range s.snapshots {
		out = append(out, rec.snapshot())
	}
	slices.SortFunc(out, func(a, b *models.Snapshot) int {
		return cmp.Or(
			cmp.Compare(a.Corporation.Name, b.Corporation.Name),
			cmp.Compare(a.Corporation.ID, b.Corporation.ID),
		)
	})
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, snapshotID id.SnapshotID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.snapshots[snapshotID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byCorp, rec.header.Corporation.ID)
	delete(s.snapshots, snapshotID)
	return nil
}

// RunInTx stages member mutations on copies and swaps them in only when fn
// succeeds. The store is write-locked for the duration, so fn must not call
// back into the store.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(tx ports.MemberTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{store: s, staged: make(map[id.SnapshotID]*record)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for snapshotID, staged := range tx.staged {
		s.snapshots[snapshotID] = staged
	}
	return nil
}

type memoryTx struct {
	store  *InMemoryStore
	staged map[id.SnapshotID]*record
}

func (t *memoryTx) stage(snapshotID id.SnapshotID) (*record, error) {
	if rec, ok := t.staged[snapshotID]; ok {
		return rec, nil
	}
	current, ok := t.store.snapshots[snapshotID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	rec := &record{header: current.header, members: make(map[id.CharacterID]models.Member, len(current.members))}
	for k, m := range current.members {
		rec.members[k] = m
	}
	t.staged[snapshotID] = rec
	return rec, nil
}

func (t *memoryTx) DeleteMembers(_ context.Context, snapshotID id.SnapshotID, characterIDs []id.CharacterID) error {
	rec, err := t.stage(snapshotID)
	if err != nil {
		return err
	}
	for _, characterID := range characterIDs {
		delete(rec.members, characterID)
	}
	return nil
}

func (t *memoryTx) UpsertMembers(_ context.Context, snapshotID id.SnapshotID, members []models.Member) error {
	rec, err := t.stage(snapshotID)
	if err != nil {
		return err
	}
	for _, m := range members {
		m = cloneMember(m)
		if existing, ok := rec.members[m.CharacterID]; ok {
			m.ID = existing.ID
		}
		rec.members[m.CharacterID] = withID(m)
	}
	return nil
}

func (t *memoryTx) SetLastUpdate(_ context.Context, snapshotID id.SnapshotID, at time.Time) error {
	rec, err := t.stage(snapshotID)
	if err != nil {
		return err
	}
	rec.header.LastUpdate = at
	return nil
}

func (r *record) snapshot() *models.Snapshot {
	out := r.header
	out.Corporation.AllianceID = clonePtr(r.header.Corporation.AllianceID)
	out.Members = make([]models.Member, 0, len(r.members))
	for _, m := range r.members {
		out.Members = append(out.Members, cloneMember(m))
	}
	slices.SortFunc(out.Members, func(a, b models.Member) int {
		return cmp.Compare(a.CharacterID, b.CharacterID)
	})
	return &out
}

func withID(m models.Member) models.Member {
	if m.ID == (id.MemberID{}) {
		m.ID = id.NewMemberID()
	}
	return m
}

func cloneMember(m models.Member) models.Member {
	m.LogonDate = clonePtr(m.LogonDate)
	m.LogoffDate = clonePtr(m.LogoffDate)
	m.StartDate = clonePtr(m.StartDate)
	m.MainCharacter = clonePtr(m.MainCharacter)
	return m
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
