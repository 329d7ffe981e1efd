package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	id "corpstats/pkg/domain"
	dErrors "corpstats/pkg/domain-errors"
	"corpstats/pkg/platform/sentinel"
	"corpstats/pkg/platform/sets"
	"corpstats/pkg/requestcontext"
)

// Reconcile brings one snapshot in line with the upstream member-tracking list.
//
// A revoked or under-scoped credential, or a credential whose character left
// the corporation, deletes the snapshot and notifies its owner; the result then
// has Outcome removed and the error is nil. Any other upstream failure leaves
// the snapshot untouched and is returned as a CodeUnavailable error.
func (s *Service) Reconcile(ctx context.Context, snapshotID id.SnapshotID) (*models.SyncResult, error) {
	ctx, span := s.tracer.Start(ctx, "corpstats.Reconcile")
	defer span.End()
	span.SetAttributes(attribute.String("snapshot_id", snapshotID.String()))

	held, unlock, err := s.locker.Lock(ctx, snapshotID)
	if err != nil {
		if errors.Is(err, sentinel.ErrLocked) {
			return nil, dErrors.New(dErrors.CodeConflict, "snapshot is already being reconciled")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeOf(err), "failed to acquire snapshot lock")
	}
	defer unlock()

	start := time.Now()
	result, err := s.reconcileLocked(held, snapshotID)
	s.metrics.ObserveSyncLatency(time.Since(start))
	if err != nil && held.Err() != nil && ctx.Err() == nil {
		err = dErrors.Wrap(err, dErrors.CodeTimeout, "snapshot lock expired before reconciliation finished")
	}
	if err != nil {
		s.metrics.IncrementOutcome("error", "")
		span.RecordError(err)
		span.SetStatus(codes.Error, "reconcile failed")
		return nil, err
	}
	s.metrics.IncrementOutcome(string(result.Outcome), string(result.Reason))
	span.SetAttributes(
		attribute.String("outcome", string(result.Outcome)),
		attribute.Int("members.added", result.Added),
		attribute.Int("members.removed", result.Removed),
	)
	return result, nil
}

func (s *Service) reconcileLocked(ctx context.Context, snapshotID id.SnapshotID) (*models.SyncResult, error) {
	snapshot, err := s.store.FindByID(ctx, snapshotID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "snapshot not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load snapshot")
	}

	// The affiliation check and the roster fetch use different scopes, so
	// each can trigger removal on its own.
	corporationID, err := s.roster.CharacterCorporation(ctx, snapshot.Token)
	if err != nil {
		if reason, fatal := fatalReason(err); fatal {
			return s.removeSnapshot(ctx, snapshot, reason)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to fetch credential affiliation")
	}
	if corporationID != snapshot.Corporation.ID {
		return s.removeSnapshot(ctx, snapshot, models.ReasonCredentialCorpMismatch)
	}

	rows, err := s.roster.MemberTracking(ctx, snapshot.Token, snapshot.Corporation.ID)
	if err != nil {
		if reason, fatal := fatalReason(err); fatal {
			return s.removeSnapshot(ctx, snapshot, reason)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to fetch member tracking")
	}

	fresh := make(map[id.CharacterID]models.MemberRow, len(rows))
	for _, row := range rows {
		fresh[row.CharacterID] = row
	}
	existing := make(map[id.CharacterID]models.Member, len(snapshot.Members))
	existingIDs := sets.Of[id.CharacterID]()
	for _, m := range snapshot.Members {
		existing[m.CharacterID] = m
		existingIDs.Add(m.CharacterID)
	}
	freshIDs := sets.Of[id.CharacterID]()
	for characterID := range fresh {
		freshIDs.Add(characterID)
	}
	toDelete := sets.Sorted(existingIDs.Difference(freshIDs))

	names, err := s.enrich(ctx, snapshot.Token, fresh)
	if err != nil {
		return nil, err
	}

	members := make([]models.Member, 0, len(fresh))
	result := &models.SyncResult{
		SnapshotID:    snapshot.ID,
		CorporationID: snapshot.Corporation.ID,
		Outcome:       models.OutcomeUpdated,
		Removed:       len(toDelete),
	}
	for _, characterID := range sets.Sorted(freshIDs) {
		row := fresh[characterID]
		m := models.Member{
			CharacterID:   characterID,
			CharacterName: names.character(characterID),
			LocationID:    row.LocationID,
			LocationName:  names.location(row.LocationID),
			ShipTypeID:    row.ShipTypeID,
			ShipTypeName:  names.shipType(row.ShipTypeID),
			LogonDate:     row.LogonDate,
			LogoffDate:    row.LogoffDate,
			StartDate:     row.StartDate,
		}
		if prior, ok := existing[characterID]; ok {
			m.ID = prior.ID
			result.Updated++
		} else {
			result.Added++
		}
		if err := s.link(ctx, &m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	now := requestcontext.Now(ctx)
	err = s.store.RunInTx(ctx, func(tx ports.MemberTx) error {
		if err := tx.DeleteMembers(ctx, snapshot.ID, toDelete); err != nil {
			return err
		}
		if err := tx.UpsertMembers(ctx, snapshot.ID, members); err != nil {
			return err
		}
		return tx.SetLastUpdate(ctx, snapshot.ID, now)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "snapshot removed during reconciliation")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit roster")
	}

	s.metrics.AddChurn(result.Added, result.Removed)
	s.logger.InfoContext(ctx, "corpstats updated",
		"snapshot_id", snapshot.ID.String(),
		"corporation_id", snapshot.Corporation.ID,
		"added", result.Added,
		"updated", result.Updated,
		"removed", result.Removed,
	)
	return result, nil
}

// fatalReason classifies upstream errors that invalidate the snapshot's credential.
func fatalReason(err error) (models.RemovalReason, bool) {
	switch {
	case errors.Is(err, ports.ErrCredentialRevoked):
		return models.ReasonCredentialRevoked, true
	case errors.Is(err, ports.ErrForbidden):
		return models.ReasonForbidden, true
	default:
		return "", false
	}
}

// removeSnapshot deletes the snapshot, then tells the credential owner why.
// The notification is sent only after the deletion committed and its failure
// does not fail the reconciliation.
func (s *Service) removeSnapshot(ctx context.Context, snapshot *models.Snapshot, reason models.RemovalReason) (*models.SyncResult, error) {
	if err := s.store.Delete(ctx, snapshot.ID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete snapshot")
	}
	s.logger.WarnContext(ctx, "corpstats removed",
		"snapshot_id", snapshot.ID.String(),
		"corporation_id", snapshot.Corporation.ID,
		"reason", string(reason),
		"token_id", snapshot.Token.ID,
	)

	if err := s.notifier.Notify(ctx, snapshot.Token.UserID, removalNotice(snapshot, reason)); err != nil {
		s.metrics.IncrementNotificationsFailed()
		s.logger.ErrorContext(ctx, "failed to notify snapshot owner",
			"error", err,
			"user_id", snapshot.Token.UserID,
			"snapshot_id", snapshot.ID.String(),
		)
	}

	return &models.SyncResult{
		SnapshotID:    snapshot.ID,
		CorporationID: snapshot.Corporation.ID,
		Outcome:       models.OutcomeRemoved,
		Reason:        reason,
		Removed:       len(snapshot.Members),
	}, nil
}

func removalNotice(snapshot *models.Snapshot, reason models.RemovalReason) models.Notification {
	var message string
	switch reason {
	case models.ReasonCredentialRevoked:
		message = "Your token has expired or is no longer valid. Add a new token to create new corp stats."
	case models.ReasonForbidden:
		message = fmt.Sprintf("Your token for %s no longer has access to member tracking. Add a token with the director role to create new corp stats.",
			snapshot.Token.CharacterName)
	case models.ReasonCredentialCorpMismatch:
		message = fmt.Sprintf("%s is no longer a member of %s. Add a token from a current member to create new corp stats.",
			snapshot.Token.CharacterName, snapshot)
	}
	return models.Notification{
		Title:   fmt.Sprintf("%s corp stats removed", snapshot),
		Message: message,
		Level:   "error",
	}
}
