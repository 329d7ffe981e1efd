package esi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	id "corpstats/pkg/domain"
)

// Station and solar system ids fit below this bound; player structures are
// far above it and need an authenticated lookup.
const maxUniverseNameID = 100_000_000

type characterResponse struct {
	Name          string `json:"name"`
	CorporationID int64  `json:"corporation_id"`
	AllianceID    int64  `json:"alliance_id,omitempty"`
}

// CharacterCorporation fetches the corporation the token's character belongs to now.
func (c *Client) CharacterCorporation(ctx context.Context, token models.Token) (id.CorporationID, error) {
	var out characterResponse
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "/characters/{character_id}/",
		path:     fmt.Sprintf("/characters/%d/", token.CharacterID),
		tokenID:  token.ID,
	}, &out)
	if err != nil {
		return 0, err
	}
	return id.CorporationID(out.CorporationID), nil
}

type memberTrackingRow struct {
	CharacterID int64      `json:"character_id"`
	LocationID  int64      `json:"location_id"`
	ShipTypeID  int64      `json:"ship_type_id"`
	LogonDate   *time.Time `json:"logon_date"`
	LogoffDate  *time.Time `json:"logoff_date"`
	StartDate   *time.Time `json:"start_date"`
}

// MemberTracking fetches the director-only member tracking list.
func (c *Client) MemberTracking(ctx context.Context, token models.Token, corporationID id.CorporationID) ([]models.MemberRow, error) {
	var out []memberTrackingRow
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "/corporations/{corporation_id}/membertracking/",
		path:     fmt.Sprintf("/corporations/%d/membertracking/", corporationID),
		tokenID:  token.ID,
	}, &out)
	if err != nil {
		return nil, err
	}
	rows := make([]models.MemberRow, 0, len(out))
	for _, r := range out {
		rows = append(rows, models.MemberRow{
			CharacterID: id.CharacterID(r.CharacterID),
			LocationID:  id.LocationID(r.LocationID),
			ShipTypeID:  id.TypeID(r.ShipTypeID),
			LogonDate:   r.LogonDate,
			LogoffDate:  r.LogoffDate,
			StartDate:   r.StartDate,
		})
	}
	return rows, nil
}

type universeName struct {
	Category string `json:"category"`
	ID       int64  `json:"id"`
	Name     string `json:"name"`
}

// universeNames resolves ids through POST /universe/names/. ESI rejects the
// whole batch with 404 when any id is unknown, so a rejected batch is split
// in halves until the unknown ids are isolated and dropped.
func (c *Client) universeNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var resolved []universeName
	err := c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "/universe/names/",
		path:     "/universe/names/",
		body:     ids,
	}, &resolved)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
		if len(ids) == 1 {
			return out, nil
		}
		mid := len(ids) / 2
		for _, half := range [][]int64{ids[:mid], ids[mid:]} {
			part, err := c.universeNames(ctx, half)
			if err != nil {
				return nil, err
			}
			for k, v := range part {
				out[k] = v
			}
		}
		return out, nil
	}
	for _, n := range resolved {
		out[n.ID] = n.Name
	}
	return out, nil
}

// CharacterNames resolves character names. Unknown ids are omitted.
func (c *Client) CharacterNames(ctx context.Context, ids []id.CharacterID) (map[id.CharacterID]string, error) {
	raw := make([]int64, len(ids))
	for i, characterID := range ids {
		raw[i] = int64(characterID)
	}
	names, err := c.universeNames(ctx, raw)
	if err != nil {
		return nil, err
	}
	out := make(map[id.CharacterID]string, len(names))
	for k, v := range names {
		out[id.CharacterID(k)] = v
	}
	return out, nil
}

type typeResponse struct {
	Name string `json:"name"`
}

// TypeName resolves an inventory type name.
func (c *Client) TypeName(ctx context.Context, typeID id.TypeID) (string, error) {
	var out typeResponse
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "/universe/types/{type_id}/",
		path:     fmt.Sprintf("/universe/types/%d/", typeID),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Name, nil
}

type structureResponse struct {
	Name string `json:"name"`
}

// LocationNames resolves stations and solar systems in one batch and player
// structures one by one with the token. Structures the token cannot see are
// omitted.
func (c *Client) LocationNames(ctx context.Context, token models.Token, ids []id.LocationID) (map[id.LocationID]string, error) {
	out := make(map[id.LocationID]string, len(ids))
	var public []int64
	var structures []id.LocationID
	for _, locationID := range ids {
		if locationID < maxUniverseNameID {
			public = append(public, int64(locationID))
		} else {
			structures = append(structures, locationID)
		}
	}

	names, err := c.universeNames(ctx, public)
	if err != nil {
		return nil, err
	}
	for k, v := range names {
		out[id.LocationID(k)] = v
	}

	for _, structureID := range structures {
		var s structureResponse
		err := c.do(ctx, request{
			method:   http.MethodGet,
			endpoint: "/universe/structures/{structure_id}/",
			path:     fmt.Sprintf("/universe/structures/%d/", structureID),
			tokenID:  token.ID,
		}, &s)
		if err != nil {
			if errors.Is(err, ports.ErrForbidden) || errors.Is(err, ports.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out[structureID] = s.Name
	}
	return out, nil
}

type corporationResponse struct {
	Name        string `json:"name"`
	Ticker      string `json:"ticker"`
	MemberCount int    `json:"member_count"`
	AllianceID  int64  `json:"alliance_id,omitempty"`
}

type allianceResponse struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// Corporation fetches the public corporation description and, when it is in
// an alliance, the alliance's name and ticker.
func (c *Client) Corporation(ctx context.Context, corporationID id.CorporationID) (models.Corporation, error) {
	var corp corporationResponse
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "/corporations/{corporation_id}/",
		path:     fmt.Sprintf("/corporations/%d/", corporationID),
	}, &corp)
	if err != nil {
		return models.Corporation{}, err
	}
	out := models.Corporation{
		ID:          corporationID,
		Name:        corp.Name,
		Ticker:      corp.Ticker,
		MemberCount: corp.MemberCount,
	}
	if corp.AllianceID == 0 {
		return out, nil
	}

	allianceID := id.AllianceID(corp.AllianceID)
	var alliance allianceResponse
	err = c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "/alliances/{alliance_id}/",
		path:     fmt.Sprintf("/alliances/%d/", allianceID),
	}, &alliance)
	if err != nil {
		return models.Corporation{}, err
	}
	out.AllianceID = &allianceID
	out.AllianceName = alliance.Name
	out.AllianceTicker = alliance.Ticker
	return out, nil
}
