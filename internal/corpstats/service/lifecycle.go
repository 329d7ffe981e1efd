package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	"corpstats/internal/corpstats/visibility"
	id "corpstats/pkg/domain"
	dErrors "corpstats/pkg/domain-errors"
	"corpstats/pkg/platform/sentinel"
)

// Add creates the snapshot for the corporation the token's character belongs
// to and reconciles it once. A corporation that is already tracked is a
// conflict; its snapshot and credential are left as they are.
func (s *Service) Add(ctx context.Context, principal *models.Principal, tokenID id.TokenID) (*models.Snapshot, error) {
	if !principal.HasPermission(models.PermissionAdd) {
		return nil, dErrors.New(dErrors.CodeForbidden, "missing permission to add corp stats")
	}

	token, err := s.identity.Token(ctx, tokenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "token not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load token")
	}
	if token.UserID != principal.UserID && !principal.IsSuperuser {
		return nil, dErrors.New(dErrors.CodeForbidden, "token belongs to another user")
	}

	corporationID, err := s.roster.CharacterCorporation(ctx, *token)
	if err != nil {
		return nil, upstreamError(err, "failed to fetch token affiliation")
	}
	if err := s.ensureUntracked(ctx, corporationID); err != nil {
		return nil, err
	}
	corporation, err := s.corps.Corporation(ctx, corporationID)
	if err != nil {
		return nil, upstreamError(err, "failed to fetch corporation")
	}

	created, err := s.store.Create(ctx, &models.Snapshot{Corporation: corporation, Token: *token})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, errAlreadyTracked
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save snapshot")
	}
	s.logger.InfoContext(ctx, "corpstats added",
		"snapshot_id", created.ID.String(),
		"corporation_id", corporation.ID,
		"user_id", principal.UserID,
	)

	result, err := s.Reconcile(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	if result.Outcome == models.OutcomeRemoved {
		return nil, dErrors.New(dErrors.CodeForbidden, "token cannot read member tracking: "+string(result.Reason))
	}
	return s.store.FindByID(ctx, created.ID)
}

var errAlreadyTracked = dErrors.New(dErrors.CodeConflict, "corporation already has corp stats")

func (s *Service) ensureUntracked(ctx context.Context, corporationID id.CorporationID) error {
	_, err := s.store.FindByCorporation(ctx, corporationID)
	switch {
	case err == nil:
		return errAlreadyTracked
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load snapshot")
	}
}

func upstreamError(err error, msg string) error {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	default:
		if reason, fatal := fatalReason(err); fatal {
			if reason == models.ReasonCredentialRevoked {
				return dErrors.Wrap(err, dErrors.CodeUnauthorized, "token is no longer valid")
			}
			return dErrors.Wrap(err, dErrors.CodeForbidden, "token lacks the required scope")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
}

// SyncAll reconciles every stored snapshot with bounded concurrency. Removed
// snapshots are results, not errors. Snapshots already being reconciled
// elsewhere are skipped. Remaining failures are joined into one error.
func (s *Service) SyncAll(ctx context.Context) ([]*models.SyncResult, error) {
	snapshots, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list snapshots")
	}

	results := make([]*models.SyncResult, len(snapshots))
	errs := make([]error, len(snapshots))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, snapshot := range snapshots {
		g.Go(func() error {
			result, err := s.Reconcile(ctx, snapshot.ID)
			switch {
			case err == nil:
				results[i] = result
			case dErrors.HasCode(err, dErrors.CodeConflict):
				s.logger.InfoContext(ctx, "corpstats sync skipped: already running",
					"snapshot_id", snapshot.ID.String())
			case dErrors.HasCode(err, dErrors.CodeNotFound):
				// Deleted between listing and locking.
			default:
				s.logger.ErrorContext(ctx, "corpstats sync failed",
					"snapshot_id", snapshot.ID.String(),
					"corporation_id", snapshot.Corporation.ID,
					"error", err,
				)
				errs[i] = fmt.Errorf("%s: %w", snapshot, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*models.SyncResult, 0, len(results))
	removed := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Outcome == models.OutcomeRemoved {
			removed++
		}
		out = append(out, r)
	}
	s.metrics.SetSnapshots(len(snapshots) - removed)
	return out, errors.Join(errs...)
}

// Get returns the snapshot for corporationID if the principal may see it.
// Invisible snapshots are reported as not found.
func (s *Service) Get(ctx context.Context, principal *models.Principal, corporationID id.CorporationID) (*models.Snapshot, error) {
	snapshot, err := s.store.FindByCorporation(ctx, corporationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "corp stats not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load snapshot")
	}
	if !visibility.CanView(principal, snapshot) {
		return nil, dErrors.New(dErrors.CodeNotFound, "corp stats not found")
	}
	return snapshot, nil
}

// Sync reconciles the snapshot for corporationID on demand.
func (s *Service) Sync(ctx context.Context, principal *models.Principal, corporationID id.CorporationID) (*models.SyncResult, error) {
	snapshot, err := s.Get(ctx, principal, corporationID)
	if err != nil {
		return nil, err
	}
	return s.Reconcile(ctx, snapshot.ID)
}

// List returns every snapshot visible to the principal, ordered by corporation name.
func (s *Service) List(ctx context.Context, principal *models.Principal) ([]*models.Snapshot, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list snapshots")
	}
	return visibility.VisibleSnapshots(principal, all), nil
}

// VisibleAlliances returns the alliance ids the principal may browse.
func (s *Service) VisibleAlliances(ctx context.Context, principal *models.Principal) ([]id.AllianceID, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list snapshots")
	}
	return visibility.VisibleAllianceIDs(principal, all), nil
}

// SearchHit is one member matched by Search, with the corporation it was found in.
type SearchHit struct {
	Corporation models.Corporation `json:"corporation"`
	Member      models.Member      `json:"member"`
}

// Search finds members whose name contains query, case-insensitively, across
// all snapshots visible to the principal.
func (s *Service) Search(ctx context.Context, principal *models.Principal, query string) ([]SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "search query is required")
	}
	visible, err := s.List(ctx, principal)
	if err != nil {
		return nil, err
	}
	hits := []SearchHit{}
	for _, snapshot := range visible {
		for _, m := range snapshot.SearchMembers(query) {
			hits = append(hits, SearchHit{Corporation: snapshot.Corporation, Member: m})
		}
	}
	return hits, nil
}
