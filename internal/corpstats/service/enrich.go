package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	id "corpstats/pkg/domain"
	dErrors "corpstats/pkg/domain-errors"
	"corpstats/pkg/platform/sets"
)

// resolvedNames holds enrichment results. Missing entries render as placeholders.
type resolvedNames struct {
	characters map[id.CharacterID]string
	types      map[id.TypeID]string
	locations  map[id.LocationID]string
}

func (n resolvedNames) character(characterID id.CharacterID) string {
	if name, ok := n.characters[characterID]; ok && name != "" {
		return name
	}
	return placeholder(int64(characterID))
}

func (n resolvedNames) shipType(typeID id.TypeID) string {
	if name, ok := n.types[typeID]; ok && name != "" {
		return name
	}
	return placeholder(int64(typeID))
}

func (n resolvedNames) location(locationID id.LocationID) string {
	if name, ok := n.locations[locationID]; ok && name != "" {
		return name
	}
	return placeholder(int64(locationID))
}

func placeholder(rawID int64) string {
	return fmt.Sprintf("Unknown (%d)", rawID)
}

// enrich resolves character, ship type and location names in three concurrent
// batches. Unresolvable ids are gaps, not failures; any other lookup error
// aborts the whole reconciliation before anything is written.
func (s *Service) enrich(ctx context.Context, token models.Token, rows map[id.CharacterID]models.MemberRow) (resolvedNames, error) {
	characterIDs := sets.Of[id.CharacterID]()
	typeIDs := sets.Of[id.TypeID]()
	locationIDs := sets.Of[id.LocationID]()
	for characterID, row := range rows {
		characterIDs.Add(characterID)
		if row.ShipTypeID != 0 {
			typeIDs.Add(row.ShipTypeID)
		}
		if row.LocationID != 0 {
			locationIDs.Add(row.LocationID)
		}
	}

	out := resolvedNames{
		characters: make(map[id.CharacterID]string, characterIDs.Len()),
		types:      make(map[id.TypeID]string, typeIDs.Len()),
		locations:  make(map[id.LocationID]string, locationIDs.Len()),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for _, chunk := range sets.Chunk(sets.Sorted(characterIDs), characterNameChunk) {
			names, err := s.names.CharacterNames(gctx, chunk)
			if err != nil {
				if isResolutionGap(err) {
					continue
				}
				return fmt.Errorf("character names: %w", err)
			}
			for characterID, name := range names {
				out.characters[characterID] = name
			}
		}
		return nil
	})
	g.Go(func() error {
		return s.resolveTypes(gctx, sets.Sorted(typeIDs), out.types)
	})
	g.Go(func() error {
		if locationIDs.Len() == 0 {
			return nil
		}
		names, err := s.names.LocationNames(gctx, token, sets.Sorted(locationIDs))
		if err != nil {
			// Private structures the credential cannot inspect are expected gaps.
			if isResolutionGap(err) || errors.Is(err, ports.ErrForbidden) {
				return nil
			}
			return fmt.Errorf("location names: %w", err)
		}
		for locationID, name := range names {
			out.locations[locationID] = name
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return resolvedNames{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to resolve member names")
	}
	return out, nil
}

// resolveTypes looks up each distinct type with bounded concurrency.
func (s *Service) resolveTypes(ctx context.Context, typeIDs []id.TypeID, into map[id.TypeID]string) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultTypeConcurrency)
	for _, typeID := range typeIDs {
		g.Go(func() error {
			name, err := s.names.TypeName(gctx, typeID)
			if err != nil {
				if isResolutionGap(err) {
					return nil
				}
				return fmt.Errorf("type %d: %w", typeID, err)
			}
			mu.Lock()
			into[typeID] = name
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func isResolutionGap(err error) bool {
	return errors.Is(err, ports.ErrNotFound)
}
