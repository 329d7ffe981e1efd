package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	"corpstats/internal/esi"
	id "corpstats/pkg/domain"
	"corpstats/pkg/platform/sentinel"
)

// PostgresDirectory reads the identity directory from PostgreSQL.
type PostgresDirectory struct {
	db *sql.DB
}

var (
	_ ports.IdentityDirectory = (*PostgresDirectory)(nil)
	_ esi.TokenSource         = (*PostgresDirectory)(nil)
)

func NewPostgres(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) LookupOwner(ctx context.Context, characterID id.CharacterID) (*models.Ownership, error) {
	var (
		userID   int64
		mainID   sql.NullInt64
		mainName sql.NullString
	)
	err := d.db.QueryRowContext(ctx, `
		SELECT o.user_id, main.character_id, main.character_name
		FROM character_ownerships o
		JOIN users u ON u.id = o.user_id
		LEFT JOIN characters main ON main.character_id = u.main_character_id
		WHERE o.character_id = $1`, int64(characterID),
	).Scan(&userID, &mainID, &mainName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lookup owner of character %d: %w", characterID, err)
	}

	ownership := &models.Ownership{CharacterID: characterID, UserID: id.UserID(userID)}
	if mainID.Valid {
		ownership.MainCharacter = &models.CharacterRef{ID: id.CharacterID(mainID.Int64), Name: mainName.String}
	}
	return ownership, nil
}

func (d *PostgresDirectory) Token(ctx context.Context, tokenID id.TokenID) (*models.Token, error) {
	var characterID, userID int64
	token := &models.Token{ID: tokenID}
	err := d.db.QueryRowContext(ctx, `
		SELECT character_id, character_name, user_id FROM esi_tokens WHERE id = $1`, int64(tokenID),
	).Scan(&characterID, &token.CharacterName, &userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find token %d: %w", tokenID, err)
	}
	token.CharacterID = id.CharacterID(characterID)
	token.UserID = id.UserID(userID)
	return token, nil
}

// AccessToken returns the stored access token. A deleted token row means the
// owner revoked the credential.
func (d *PostgresDirectory) AccessToken(ctx context.Context, tokenID id.TokenID) (string, error) {
	var accessToken string
	err := d.db.QueryRowContext(ctx, `SELECT access_token FROM esi_tokens WHERE id = $1`, int64(tokenID)).Scan(&accessToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ports.ErrCredentialRevoked
		}
		return "", fmt.Errorf("load access token %d: %w", tokenID, err)
	}
	if accessToken == "" {
		return "", ports.ErrCredentialRevoked
	}
	return accessToken, nil
}

// Principal loads a fresh principal: account flags, main character,
// permission grants and enrolled states.
func (d *PostgresDirectory) Principal(ctx context.Context, userID id.UserID) (*models.Principal, error) {
	var (
		superuser    bool
		mainID       sql.NullInt64
		mainName     sql.NullString
		mainCorp     sql.NullInt64
		mainAlliance sql.NullInt64
	)
	err := d.db.QueryRowContext(ctx, `
		SELECT u.is_superuser, c.character_id, c.character_name, c.corporation_id, c.alliance_id
		FROM users u
		LEFT JOIN characters c ON c.character_id = u.main_character_id
		WHERE u.id = $1`, int64(userID),
	).Scan(&superuser, &mainID, &mainName, &mainCorp, &mainAlliance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	p := &models.Principal{UserID: userID, IsSuperuser: superuser}
	if mainID.Valid {
		p.MainCharacter = &models.Character{
			ID:            id.CharacterID(mainID.Int64),
			Name:          mainName.String,
			CorporationID: id.CorporationID(mainCorp.Int64),
		}
		if mainAlliance.Valid {
			alliance := id.AllianceID(mainAlliance.Int64)
			p.MainCharacter.AllianceID = &alliance
		}
	}

	if p.Permissions, err = d.permissions(ctx, userID); err != nil {
		return nil, err
	}
	if p.States, err = d.states(ctx, userID); err != nil {
		return nil, err
	}
	return p, nil
}

func (d *PostgresDirectory) permissions(ctx context.Context, userID id.UserID) (map[models.Permission]struct{}, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT permission FROM user_permissions WHERE user_id = $1`, int64(userID))
	if err != nil {
		return nil, fmt.Errorf("load permissions of user %d: %w", userID, err)
	}
	defer rows.Close()

	perms := make(map[models.Permission]struct{})
	for rows.Next() {
		var perm string
		if err := rows.Scan(&perm); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		perms[models.Permission(perm)] = struct{}{}
	}
	return perms, rows.Err()
}

func (d *PostgresDirectory) states(ctx context.Context, userID id.UserID) ([]models.State, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT s.id, s.name,
			ARRAY(SELECT corporation_id FROM state_member_corporations WHERE state_id = s.id ORDER BY corporation_id),
			ARRAY(SELECT alliance_id FROM state_member_alliances WHERE state_id = s.id ORDER BY alliance_id)
		FROM user_states us
		JOIN states s ON s.id = us.state_id
		WHERE us.user_id = $1
		ORDER BY s.id`, int64(userID))
	if err != nil {
		return nil, fmt.Errorf("load states of user %d: %w", userID, err)
	}
	defer rows.Close()

	var states []models.State
	for rows.Next() {
		var (
			stateID   int64
			name      string
			corps     pq.Int64Array
			alliances pq.Int64Array
		)
		if err := rows.Scan(&stateID, &name, &corps, &alliances); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		state := models.State{ID: id.StateID(stateID), Name: name}
		for _, c := range corps {
			state.MemberCorporations = append(state.MemberCorporations, id.CorporationID(c))
		}
		for _, a := range alliances {
			state.MemberAlliances = append(state.MemberAlliances, id.AllianceID(a))
		}
		states = append(states, state)
	}
	return states, rows.Err()
}
