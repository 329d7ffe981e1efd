package handler

import (
	"time"

	"corpstats/internal/corpstats/models"
	id "corpstats/pkg/domain"
)

const (
	logoSize     = 128
	portraitSize = 64
)

type addRequest struct {
	TokenID id.TokenID `json:"token_id"`
}

type listResponse struct {
	CorpStats []snapshotSummary `json:"corpstats"`
}

type snapshotSummary struct {
	models.Corporation
	CorpLogo          string     `json:"corp_logo"`
	AllianceLogo      string     `json:"alliance_logo,omitempty"`
	TrackedMembers    int        `json:"tracked_members"`
	UserCount         int        `json:"user_count"`
	RegisteredCount   int        `json:"registered_count"`
	UnregisteredCount int        `json:"unregistered_count"`
	MainCount         int        `json:"main_count"`
	LastUpdate        *time.Time `json:"last_update,omitempty"`
}

type snapshotDetail struct {
	snapshotSummary
	Mains        []mainResponse   `json:"mains"`
	Unregistered []memberResponse `json:"unregistered"`
	Members      []memberResponse `json:"members"`
}

type memberResponse struct {
	models.Member
	Portrait string `json:"portrait_url"`
}

type mainResponse struct {
	memberResponse
	Alts []memberResponse `json:"alts"`
}

type alliancesResponse struct {
	AllianceIDs []id.AllianceID `json:"alliance_ids"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	CorporationID   id.CorporationID `json:"corporation_id"`
	CorporationName string           `json:"corporation_name"`
	Member          memberResponse   `json:"member"`
}

type syncResponse struct {
	Outcome models.SyncOutcome   `json:"outcome"`
	Reason  models.RemovalReason `json:"reason,omitempty"`
	Added   int                  `json:"added"`
	Updated int                  `json:"updated"`
	Removed int                  `json:"removed"`
}

func summarize(s *models.Snapshot) snapshotSummary {
	out := snapshotSummary{
		Corporation:       s.Corporation,
		CorpLogo:          s.CorpLogo(logoSize),
		AllianceLogo:      s.AllianceLogo(logoSize),
		TrackedMembers:    s.MemberCount(),
		UserCount:         s.UserCount(),
		RegisteredCount:   s.RegisteredMemberCount(),
		UnregisteredCount: s.UnregisteredMemberCount(),
		MainCount:         s.MainCount(),
	}
	if !s.LastUpdate.IsZero() {
		last := s.LastUpdate
		out.LastUpdate = &last
	}
	return out
}

func detail(s *models.Snapshot) snapshotDetail {
	out := snapshotDetail{
		snapshotSummary: summarize(s),
		Mains:           []mainResponse{},
		Unregistered:    toMembers(s.UnregisteredMembers()),
		Members:         toMembers(s.Members),
	}
	for _, main := range s.Mains() {
		out.Mains = append(out.Mains, mainResponse{
			memberResponse: toMember(main),
			Alts:           toMembers(s.Alts(main)),
		})
	}
	return out
}

func toMember(m models.Member) memberResponse {
	return memberResponse{Member: m, Portrait: m.PortraitURL(portraitSize)}
}

func toMembers(members []models.Member) []memberResponse {
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMember(m))
	}
	return out
}
