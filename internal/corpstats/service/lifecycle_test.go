package service

import (
	"context"
	"errors"

	"go.uber.org/mock/gomock"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	id "corpstats/pkg/domain"
	dErrors "corpstats/pkg/domain-errors"
	"corpstats/pkg/platform/sentinel"
)

func principalWith(userID id.UserID, perms ...models.Permission) *models.Principal {
	p := &models.Principal{UserID: userID, Permissions: map[models.Permission]struct{}{}}
	for _, perm := range perms {
		p.Permissions[perm] = struct{}{}
	}
	return p
}

func (s *ReconcileSuite) TestAddRequiresPermission() {
	_, err := s.service.Add(s.ctx, principalWith(testOwner), 3)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ReconcileSuite) TestAddRejectsForeignToken() {
	s.identity.EXPECT().Token(gomock.Any(), id.TokenID(3)).
		Return(&models.Token{ID: 3, CharacterID: 90000001, UserID: 99}, nil)

	_, err := s.service.Add(s.ctx, principalWith(testOwner, models.PermissionAdd), 3)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ReconcileSuite) TestAddUnknownToken() {
	s.identity.EXPECT().Token(gomock.Any(), id.TokenID(3)).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Add(s.ctx, principalWith(testOwner, models.PermissionAdd), 3)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ReconcileSuite) TestAddCreatesAndReconciles() {
	token := &models.Token{ID: 3, CharacterID: 90000001, CharacterName: "Director", UserID: testOwner}
	s.identity.EXPECT().Token(gomock.Any(), id.TokenID(3)).Return(token, nil)
	s.roster.EXPECT().CharacterCorporation(gomock.Any(), *token).Return(testCorp, nil).Times(2)
	s.corps.EXPECT().Corporation(gomock.Any(), testCorp).
		Return(models.Corporation{ID: testCorp, Name: "Test Corp", Ticker: "TST", MemberCount: 2}, nil)
	s.roster.EXPECT().MemberTracking(gomock.Any(), *token, testCorp).Return(rows(1, 2), nil)
	s.expectNames()
	s.expectOwners(nil)

	created, err := s.service.Add(s.ctx, principalWith(testOwner, models.PermissionAdd), 3)
	s.Require().NoError(err)
	s.Equal(testCorp, created.Corporation.ID)
	s.Equal(id.TokenID(3), created.Token.ID)
	s.Len(created.Members, 2)
	s.Equal(testNow, created.LastUpdate)
}

func (s *ReconcileSuite) TestAddRejectsTrackedCorporation() {
	existing := s.seed(models.Member{CharacterID: 1}, models.Member{CharacterID: 2})
	token := &models.Token{ID: 9, CharacterID: 90000002, CharacterName: "Line Member", UserID: 8}
	s.identity.EXPECT().Token(gomock.Any(), id.TokenID(9)).Return(token, nil)
	s.roster.EXPECT().CharacterCorporation(gomock.Any(), *token).Return(testCorp, nil)

	_, err := s.service.Add(s.ctx, principalWith(8, models.PermissionAdd), 9)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	kept, err := s.store.FindByID(s.ctx, existing.ID)
	s.Require().NoError(err)
	s.Equal(id.TokenID(3), kept.Token.ID)
	s.Equal(testOwner, kept.Token.UserID)
	s.Len(kept.Members, 2)
}

func (s *ReconcileSuite) TestAddLosingCreateRaceIsConflict() {
	token := &models.Token{ID: 9, CharacterID: 90000002, UserID: 8}
	s.identity.EXPECT().Token(gomock.Any(), id.TokenID(9)).Return(token, nil)
	s.roster.EXPECT().CharacterCorporation(gomock.Any(), *token).Return(testCorp, nil)
	s.corps.EXPECT().Corporation(gomock.Any(), testCorp).
		DoAndReturn(func(context.Context, id.CorporationID) (models.Corporation, error) {
			s.seed(models.Member{CharacterID: 1})
			return models.Corporation{ID: testCorp, Name: "Test Corp"}, nil
		})

	_, err := s.service.Add(s.ctx, principalWith(8, models.PermissionAdd), 9)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	kept, err := s.store.FindByCorporation(s.ctx, testCorp)
	s.Require().NoError(err)
	s.Equal(id.TokenID(3), kept.Token.ID)
	s.Len(kept.Members, 1)
}

func (s *ReconcileSuite) TestAddWithRevokedToken() {
	token := &models.Token{ID: 3, CharacterID: 90000001, UserID: testOwner}
	s.identity.EXPECT().Token(gomock.Any(), id.TokenID(3)).Return(token, nil)
	s.roster.EXPECT().CharacterCorporation(gomock.Any(), *token).Return(id.CorporationID(0), ports.ErrCredentialRevoked)

	_, err := s.service.Add(s.ctx, principalWith(testOwner, models.PermissionAdd), 3)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *ReconcileSuite) TestAddWithoutDirectorRole() {
	token := &models.Token{ID: 3, CharacterID: 90000001, UserID: testOwner}
	s.identity.EXPECT().Token(gomock.Any(), id.TokenID(3)).Return(token, nil)
	s.roster.EXPECT().CharacterCorporation(gomock.Any(), *token).Return(testCorp, nil).Times(2)
	s.corps.EXPECT().Corporation(gomock.Any(), testCorp).Return(models.Corporation{ID: testCorp, Name: "Test Corp"}, nil)
	s.roster.EXPECT().MemberTracking(gomock.Any(), *token, testCorp).Return(nil, ports.ErrForbidden)
	s.notifier.EXPECT().Notify(gomock.Any(), testOwner, gomock.Any()).Return(nil)

	_, err := s.service.Add(s.ctx, principalWith(testOwner, models.PermissionAdd), 3)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	_, err = s.store.FindByCorporation(s.ctx, testCorp)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ReconcileSuite) TestSyncAllReportsEachSnapshot() {
	healthy := s.saveCorp(1, "Healthy", 11)
	revoked := s.saveCorp(2, "Revoked", 12)
	flaky := s.saveCorp(3, "Flaky", 13)

	s.roster.EXPECT().CharacterCorporation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, token models.Token) (id.CorporationID, error) {
			return id.CorporationID(token.ID - 10), nil
		}).Times(3)
	s.roster.EXPECT().MemberTracking(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Token, corporationID id.CorporationID) ([]models.MemberRow, error) {
			switch corporationID {
			case revoked.Corporation.ID:
				return nil, ports.ErrCredentialRevoked
			case flaky.Corporation.ID:
				return nil, errors.New("esi timeout")
			default:
				return rows(1), nil
			}
		}).Times(3)
	s.notifier.EXPECT().Notify(gomock.Any(), id.UserID(12), gomock.Any()).Return(nil)
	s.expectNames()
	s.expectOwners(nil)

	results, err := s.service.SyncAll(s.ctx)
	s.Require().Error(err)
	s.Contains(err.Error(), "Flaky")
	s.Require().Len(results, 2)

	byCorp := map[id.CorporationID]*models.SyncResult{}
	for _, r := range results {
		byCorp[r.CorporationID] = r
	}
	s.Equal(models.OutcomeUpdated, byCorp[healthy.Corporation.ID].Outcome)
	s.Equal(models.OutcomeRemoved, byCorp[revoked.Corporation.ID].Outcome)

	remaining, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(remaining, 2)
}

func (s *ReconcileSuite) saveCorp(corpID id.CorporationID, name string, tokenID id.TokenID) *models.Snapshot {
	saved, err := s.store.Save(s.ctx, &models.Snapshot{
		Corporation: models.Corporation{ID: corpID, Name: name},
		Token:       models.Token{ID: tokenID, UserID: id.UserID(tokenID)},
	})
	s.Require().NoError(err)
	return saved
}

func (s *ReconcileSuite) TestReadsAreFilteredByVisibility() {
	ally := id.AllianceID(99000001)
	own, err := s.store.Save(s.ctx, &models.Snapshot{
		Corporation: models.Corporation{ID: 1, Name: "Own", AllianceID: &ally},
		Token:       models.Token{ID: 1, UserID: 1},
	})
	s.Require().NoError(err)
	s.Require().NoError(s.store.RunInTx(s.ctx, func(tx ports.MemberTx) error {
		return tx.UpsertMembers(s.ctx, own.ID, []models.Member{{CharacterID: 5, CharacterName: "Needle Haystack"}})
	}))
	other := s.saveCorp(2, "Other", 2)
	s.Require().NoError(s.store.RunInTx(s.ctx, func(tx ports.MemberTx) error {
		return tx.UpsertMembers(s.ctx, other.ID, []models.Member{{CharacterID: 6, CharacterName: "Needle Elsewhere"}})
	}))

	viewer := principalWith(1, models.PermissionViewCorp)
	viewer.MainCharacter = &models.Character{ID: 5, Name: "Needle Haystack", CorporationID: 1, AllianceID: &ally}

	listed, err := s.service.List(s.ctx, viewer)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(own.ID, listed[0].ID)

	_, err = s.service.Get(s.ctx, viewer, 2)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	got, err := s.service.Get(s.ctx, viewer, 1)
	s.Require().NoError(err)
	s.Equal(own.ID, got.ID)

	hits, err := s.service.Search(s.ctx, viewer, "needle")
	s.Require().NoError(err)
	s.Require().Len(hits, 1)
	s.Equal(id.CharacterID(5), hits[0].Member.CharacterID)

	_, err = s.service.Search(s.ctx, viewer, "   ")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	alliances, err := s.service.VisibleAlliances(s.ctx, viewer)
	s.Require().NoError(err)
	s.Empty(alliances)

	viewer.Permissions[models.PermissionViewAlliance] = struct{}{}
	alliances, err = s.service.VisibleAlliances(s.ctx, viewer)
	s.Require().NoError(err)
	s.Equal([]id.AllianceID{ally}, alliances)
}

func (s *ReconcileSuite) TestSyncRequiresVisibility() {
	s.saveCorp(2, "Other", 2)
	_, err := s.service.Sync(s.ctx, principalWith(1), 2)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
