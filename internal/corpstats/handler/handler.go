// Package handler exposes corp stats over HTTP. Every route resolves the
// requesting principal fresh from the identity directory so permission and
// state changes take effect on the next request.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/service"
	id "corpstats/pkg/domain"
	dErrors "corpstats/pkg/domain-errors"
	"corpstats/pkg/platform/httputil"
	"corpstats/pkg/platform/sentinel"
	"corpstats/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Service is the corp stats surface the handler drives.
type Service interface {
	List(ctx context.Context, principal *models.Principal) ([]*models.Snapshot, error)
	Get(ctx context.Context, principal *models.Principal, corporationID id.CorporationID) (*models.Snapshot, error)
	Search(ctx context.Context, principal *models.Principal, query string) ([]service.SearchHit, error)
	VisibleAlliances(ctx context.Context, principal *models.Principal) ([]id.AllianceID, error)
	Add(ctx context.Context, principal *models.Principal, tokenID id.TokenID) (*models.Snapshot, error)
	Sync(ctx context.Context, principal *models.Principal, corporationID id.CorporationID) (*models.SyncResult, error)
}

// PrincipalLoader loads the grant data of an authenticated user.
type PrincipalLoader interface {
	Principal(ctx context.Context, userID id.UserID) (*models.Principal, error)
}

// Handler serves the /corpstats routes.
type Handler struct {
	corpstats  Service
	principals PrincipalLoader
	logger     *slog.Logger
}

func New(corpstats Service, principals PrincipalLoader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{corpstats: corpstats, principals: principals, logger: logger}
}

// Register mounts the routes on r. Authentication middleware is applied by
// the caller.
func (h *Handler) Register(r chi.Router) {
	r.Route("/corpstats", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleAdd)
		r.Get("/alliances", h.handleAlliances)
		r.Get("/search", h.handleSearch)
		r.Get("/{corporationID}", h.handleGet)
		r.Post("/{corporationID}/sync", h.handleSync)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	snapshots, err := h.corpstats.List(ctx, principal)
	if err != nil {
		h.fail(ctx, w, err, "failed to list corp stats")
		return
	}
	resp := listResponse{CorpStats: make([]snapshotSummary, 0, len(snapshots))}
	for _, s := range snapshots {
		resp.CorpStats = append(resp.CorpStats, summarize(s))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	corporationID, err := id.ParseCorporationID(chi.URLParam(r, "corporationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	snapshot, err := h.corpstats.Get(ctx, principal, corporationID)
	if err != nil {
		h.fail(ctx, w, err, "failed to load corp stats")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detail(snapshot))
}

func (h *Handler) handleAlliances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	alliances, err := h.corpstats.VisibleAlliances(ctx, principal)
	if err != nil {
		h.fail(ctx, w, err, "failed to list alliances")
		return
	}
	if alliances == nil {
		alliances = []id.AllianceID{}
	}
	httputil.WriteJSON(w, http.StatusOK, alliancesResponse{AllianceIDs: alliances})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	hits, err := h.corpstats.Search(ctx, principal, r.URL.Query().Get("q"))
	if err != nil {
		h.fail(ctx, w, err, "failed to search members")
		return
	}
	resp := searchResponse{Results: make([]searchResult, 0, len(hits))}
	for _, hit := range hits {
		resp.Results = append(resp.Results, searchResult{
			CorporationID:   hit.Corporation.ID,
			CorporationName: hit.Corporation.Name,
			Member:          toMember(hit.Member),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req addRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid add corp stats request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.TokenID <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "token_id is required"))
		return
	}
	snapshot, err := h.corpstats.Add(ctx, principal, req.TokenID)
	if err != nil {
		h.fail(ctx, w, err, "failed to add corp stats")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, detail(snapshot))
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	corporationID, err := id.ParseCorporationID(chi.URLParam(r, "corporationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.corpstats.Sync(ctx, principal, corporationID)
	if err != nil {
		h.fail(ctx, w, err, "failed to sync corp stats")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, syncResponse{
		Outcome: result.Outcome,
		Reason:  result.Reason,
		Added:   result.Added,
		Updated: result.Updated,
		Removed: result.Removed,
	})
}

// principal loads the requesting principal or writes the error response.
func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (*models.Principal, bool) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == 0 {
		h.logger.ErrorContext(ctx, "user id missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return nil, false
	}
	principal, err := h.principals.Principal(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "unknown user"))
			return nil, false
		}
		h.fail(ctx, w, err, "failed to load principal")
		return nil, false
	}
	return principal, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
