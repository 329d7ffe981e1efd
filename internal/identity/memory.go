// Package identity is the local identity directory: users, the characters
// they own, their main character, permission grants, state enrollment and
// stored ESI tokens.
package identity

import (
	"context"
	"slices"
	"sync"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	"corpstats/internal/esi"
	id "corpstats/pkg/domain"
	"corpstats/pkg/platform/sentinel"
)

// User is a local account.
type User struct {
	ID              id.UserID
	Username        string
	IsSuperuser     bool
	MainCharacterID id.CharacterID // zero when no main is set
}

// StoredToken is an ESI credential held for a user.
type StoredToken struct {
	models.Token
	AccessToken string
}

var (
	_ ports.IdentityDirectory = (*InMemoryDirectory)(nil)
	_ esi.TokenSource         = (*InMemoryDirectory)(nil)
)

// InMemoryDirectory keeps the directory in process memory. It backs tests
// and development setups without PostgreSQL.
type InMemoryDirectory struct {
	mu          sync.RWMutex
	users       map[id.UserID]User
	characters  map[id.CharacterID]models.Character
	owners      map[id.CharacterID]id.UserID
	permissions map[id.UserID]map[models.Permission]struct{}
	states      map[id.StateID]models.State
	enrollment  map[id.UserID][]id.StateID
	tokens      map[id.TokenID]StoredToken
}

func NewInMemory() *InMemoryDirectory {
	return &InMemoryDirectory{
		users:       make(map[id.UserID]User),
		characters:  make(map[id.CharacterID]models.Character),
		owners:      make(map[id.CharacterID]id.UserID),
		permissions: make(map[id.UserID]map[models.Permission]struct{}),
		states:      make(map[id.StateID]models.State),
		enrollment:  make(map[id.UserID][]id.StateID),
		tokens:      make(map[id.TokenID]StoredToken),
	}
}

func (d *InMemoryDirectory) SaveUser(user User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.ID] = user
}

// SaveCharacter records a character and, when owner is non-zero, its owner.
func (d *InMemoryDirectory) SaveCharacter(character models.Character, owner id.UserID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.characters[character.ID] = character
	if owner != 0 {
		d.owners[character.ID] = owner
	} else {
		delete(d.owners, character.ID)
	}
}

func (d *InMemoryDirectory) Grant(userID id.UserID, perms ...models.Permission) {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.permissions[userID]
	if !ok {
		set = make(map[models.Permission]struct{})
		d.permissions[userID] = set
	}
	for _, p := range perms {
		set[p] = struct{}{}
	}
}

func (d *InMemoryDirectory) Revoke(userID id.UserID, perm models.Permission) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.permissions[userID], perm)
}

func (d *InMemoryDirectory) SaveState(state models.State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.states[state.ID] = state
}

func (d *InMemoryDirectory) Enroll(userID id.UserID, stateID id.StateID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !slices.Contains(d.enrollment[userID], stateID) {
		d.enrollment[userID] = append(d.enrollment[userID], stateID)
	}
}

func (d *InMemoryDirectory) SaveToken(token StoredToken) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tokens[token.ID] = token
}

// DeleteToken forgets a credential, as when its owner revokes it.
func (d *InMemoryDirectory) DeleteToken(tokenID id.TokenID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.tokens, tokenID)
}

func (d *InMemoryDirectory) LookupOwner(_ context.Context, characterID id.CharacterID) (*models.Ownership, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	userID, ok := d.owners[characterID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	user, ok := d.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	ownership := &models.Ownership{CharacterID: characterID, UserID: userID}
	if main, ok := d.characters[user.MainCharacterID]; ok {
		ownership.MainCharacter = &models.CharacterRef{ID: main.ID, Name: main.Name}
	}
	return ownership, nil
}

func (d *InMemoryDirectory) Token(_ context.Context, tokenID id.TokenID) (*models.Token, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	stored, ok := d.tokens[tokenID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	token := stored.Token
	return &token, nil
}

func (d *InMemoryDirectory) AccessToken(_ context.Context, tokenID id.TokenID) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	stored, ok := d.tokens[tokenID]
	if !ok || stored.AccessToken == "" {
		return "", ports.ErrCredentialRevoked
	}
	return stored.AccessToken, nil
}

func (d *InMemoryDirectory) Principal(_ context.Context, userID id.UserID) (*models.Principal, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	p := &models.Principal{
		UserID:      user.ID,
		IsSuperuser: user.IsSuperuser,
		Permissions: make(map[models.Permission]struct{}, len(d.permissions[userID])),
	}
	for perm := range d.permissions[userID] {
		p.Permissions[perm] = struct{}{}
	}
	if main, ok := d.characters[user.MainCharacterID]; ok {
		p.MainCharacter = cloneCharacter(main)
	}
	for _, stateID := range d.enrollment[userID] {
		state, ok := d.states[stateID]
		if !ok {
			continue
		}
		state.MemberCorporations = slices.Clone(state.MemberCorporations)
		state.MemberAlliances = slices.Clone(state.MemberAlliances)
		p.States = append(p.States, state)
	}
	return p, nil
}

func cloneCharacter(c models.Character) *models.Character {
	out := c
	if c.AllianceID != nil {
		alliance := *c.AllianceID
		out.AllianceID = &alliance
	}
	return &out
}
