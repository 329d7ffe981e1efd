package service

import (
	"context"
	"errors"
	"fmt"

	"corpstats/internal/corpstats/models"
	dErrors "corpstats/pkg/domain-errors"
	"corpstats/pkg/platform/sentinel"
)

// link recomputes identity linkage for one member from the identity directory.
// The main character is stored as a lookup key and name only.
func (s *Service) link(ctx context.Context, m *models.Member) error {
	m.Registered = false
	m.MainCharacter = nil
	m.IsMain = false

	owner, err := s.identity.LookupOwner(ctx, m.CharacterID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(fmt.Errorf("lookup owner of %d: %w", m.CharacterID, err),
			dErrors.CodeUnavailable, "failed to resolve member identity")
	}

	m.Registered = true
	if owner.MainCharacter != nil {
		ref := *owner.MainCharacter
		m.MainCharacter = &ref
		m.IsMain = ref.ID == m.CharacterID
	}
	return nil
}
