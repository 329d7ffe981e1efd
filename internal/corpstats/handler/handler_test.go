package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"corpstats/internal/corpstats/handler/mocks"
	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/service"
	id "corpstats/pkg/domain"
	dErrors "corpstats/pkg/domain-errors"
	"corpstats/pkg/platform/sentinel"
	"corpstats/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	service    *mocks.MockService
	principals *mocks.MockPrincipalLoader
	router     chi.Router
	principal  *models.Principal
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.principals = mocks.NewMockPrincipalLoader(ctrl)
	s.principal = &models.Principal{UserID: 7, Permissions: map[models.Permission]struct{}{models.PermissionViewCorp: {}}}

	h := New(s.service, s.principals, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) do(method, target, body string, userID id.UserID) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := testutil.WithUserID(httptest.NewRequest(method, target, reader), userID)
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) expectPrincipal() {
	s.principals.EXPECT().Principal(gomock.Any(), id.UserID(7)).Return(s.principal, nil)
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	return *testutil.UnmarshalResponse[map[string]any](s.T(), rec)
}

func sampleSnapshot() *models.Snapshot {
	alliance := id.AllianceID(99000001)
	main := &models.CharacterRef{ID: 1, Name: "Main"}
	return &models.Snapshot{
		ID:          id.NewSnapshotID(),
		Corporation: models.Corporation{ID: 98000001, Name: "Test Corp", Ticker: "TST", MemberCount: 3, AllianceID: &alliance},
		LastUpdate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Members: []models.Member{
			{CharacterID: 1, CharacterName: "Main", Registered: true, MainCharacter: main, IsMain: true},
			{CharacterID: 2, CharacterName: "Alt", Registered: true, MainCharacter: main},
			{CharacterID: 3, CharacterName: "Stranger"},
		},
	}
}

func (s *HandlerSuite) TestListReturnsSummaries() {
	s.expectPrincipal()
	s.service.EXPECT().List(gomock.Any(), s.principal).Return([]*models.Snapshot{sampleSnapshot()}, nil)

	rec := s.do(http.MethodGet, "/corpstats", "", 7)

	s.Require().Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	list := body["corpstats"].([]any)
	s.Require().Len(list, 1)
	first := list[0].(map[string]any)
	s.Equal("Test Corp", first["corporation_name"])
	s.EqualValues(3, first["tracked_members"])
	s.EqualValues(1, first["user_count"])
	s.EqualValues(2, first["registered_count"])
	s.EqualValues(1, first["unregistered_count"])
	s.EqualValues(1, first["main_count"])
	s.Contains(first["alliance_logo"], "Alliance/99000001_128.png")
}

func (s *HandlerSuite) TestGetReturnsMainsWithAlts() {
	s.expectPrincipal()
	s.service.EXPECT().Get(gomock.Any(), s.principal, id.CorporationID(98000001)).Return(sampleSnapshot(), nil)

	rec := s.do(http.MethodGet, "/corpstats/98000001", "", 7)

	s.Require().Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	mains := body["mains"].([]any)
	s.Require().Len(mains, 1)
	alts := mains[0].(map[string]any)["alts"].([]any)
	s.Require().Len(alts, 1)
	s.Equal("Alt", alts[0].(map[string]any)["character_name"])
	s.Len(body["unregistered"], 1)
	s.Len(body["members"], 3)
}

func (s *HandlerSuite) TestGetInvisibleIsNotFound() {
	s.expectPrincipal()
	s.service.EXPECT().Get(gomock.Any(), s.principal, id.CorporationID(98000002)).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "corp stats not found"))

	rec := s.do(http.MethodGet, "/corpstats/98000002", "", 7)
	testutil.AssertStatusAndError(s.T(), rec, http.StatusNotFound, "not_found")
}

func (s *HandlerSuite) TestGetRejectsMalformedID() {
	s.expectPrincipal()
	rec := s.do(http.MethodGet, "/corpstats/abc", "", 7)
	testutil.AssertStatusAndError(s.T(), rec, http.StatusBadRequest, "invalid_input")
}

func (s *HandlerSuite) TestMissingUserIsUnauthorized() {
	rec := s.do(http.MethodGet, "/corpstats", "", 0)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestUnknownUserIsUnauthorized() {
	s.principals.EXPECT().Principal(gomock.Any(), id.UserID(8)).Return(nil, sentinel.ErrNotFound)
	rec := s.do(http.MethodGet, "/corpstats", "", 8)
	testutil.AssertStatusAndError(s.T(), rec, http.StatusUnauthorized, "unauthorized")
}

func (s *HandlerSuite) TestPrincipalLoadFailureIsInternal() {
	s.principals.EXPECT().Principal(gomock.Any(), id.UserID(7)).Return(nil, errors.New("connection reset"))
	rec := s.do(http.MethodGet, "/corpstats", "", 7)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "connection reset")
}

func (s *HandlerSuite) TestAlliances() {
	s.expectPrincipal()
	s.service.EXPECT().VisibleAlliances(gomock.Any(), s.principal).Return(nil, nil)

	rec := s.do(http.MethodGet, "/corpstats/alliances", "", 7)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"alliance_ids":[]}`, rec.Body.String())
}

func (s *HandlerSuite) TestSearch() {
	s.expectPrincipal()
	snap := sampleSnapshot()
	s.service.EXPECT().Search(gomock.Any(), s.principal, "alt").
		Return([]service.SearchHit{{Corporation: snap.Corporation, Member: snap.Members[1]}}, nil)

	rec := s.do(http.MethodGet, "/corpstats/search?q=alt", "", 7)
	s.Require().Equal(http.StatusOK, rec.Code)
	results := s.decode(rec)["results"].([]any)
	s.Require().Len(results, 1)
	hit := results[0].(map[string]any)
	s.EqualValues(98000001, hit["corporation_id"])
	s.Equal("Alt", hit["member"].(map[string]any)["character_name"])
}

func (s *HandlerSuite) TestSearchEmptyQuery() {
	s.expectPrincipal()
	s.service.EXPECT().Search(gomock.Any(), s.principal, "").
		Return(nil, dErrors.New(dErrors.CodeInvalidInput, "search query is required"))

	rec := s.do(http.MethodGet, "/corpstats/search", "", 7)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestAdd() {
	s.expectPrincipal()
	s.service.EXPECT().Add(gomock.Any(), s.principal, id.TokenID(5)).Return(sampleSnapshot(), nil)

	rec := s.do(http.MethodPost, "/corpstats", `{"token_id":5}`, 7)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Equal("TST", s.decode(rec)["corporation_ticker"])
}

func (s *HandlerSuite) TestAddValidatesBody() {
	s.principals.EXPECT().Principal(gomock.Any(), id.UserID(7)).Return(s.principal, nil).Times(2)

	rec := s.do(http.MethodPost, "/corpstats", `not json`, 7)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/corpstats", `{}`, 7)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestAddForbidden() {
	s.expectPrincipal()
	s.service.EXPECT().Add(gomock.Any(), s.principal, id.TokenID(5)).
		Return(nil, dErrors.New(dErrors.CodeForbidden, "missing permission"))

	rec := s.do(http.MethodPost, "/corpstats", `{"token_id":5}`, 7)
	testutil.AssertStatusAndError(s.T(), rec, http.StatusForbidden, "forbidden")
}

func (s *HandlerSuite) TestAddTrackedCorporationConflicts() {
	s.expectPrincipal()
	s.service.EXPECT().Add(gomock.Any(), s.principal, id.TokenID(5)).
		Return(nil, dErrors.New(dErrors.CodeConflict, "corporation already has corp stats"))

	rec := s.do(http.MethodPost, "/corpstats", `{"token_id":5}`, 7)
	testutil.AssertStatusAndError(s.T(), rec, http.StatusConflict, "conflict")
}

func (s *HandlerSuite) TestSync() {
	s.expectPrincipal()
	s.service.EXPECT().Sync(gomock.Any(), s.principal, id.CorporationID(98000001)).
		Return(&models.SyncResult{Outcome: models.OutcomeUpdated, Added: 2, Updated: 1}, nil)

	rec := s.do(http.MethodPost, "/corpstats/98000001/sync", "", 7)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"outcome":"updated","added":2,"updated":1,"removed":0}`, rec.Body.String())
}

func (s *HandlerSuite) TestSyncUpstreamUnavailable() {
	s.expectPrincipal()
	s.service.EXPECT().Sync(gomock.Any(), s.principal, id.CorporationID(98000001)).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "esi unavailable"))

	rec := s.do(http.MethodPost, "/corpstats/98000001/sync", "", 7)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

