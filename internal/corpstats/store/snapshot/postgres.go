package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	id "corpstats/pkg/domain"
	dErrors "corpstats/pkg/domain-errors"
	"corpstats/pkg/platform/sentinel"
)

const defaultTxTimeout = 10 * time.Second

// PostgresStore persists snapshots and their members in PostgreSQL.
type PostgresStore struct {
	db        *sql.DB
	txTimeout time.Duration
}

var _ ports.SnapshotStore = (*PostgresStore)(nil)

// NewPostgres constructs a PostgreSQL-backed snapshot store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, txTimeout: defaultTxTimeout}
}

const snapshotColumns = `id, corporation_id, corporation_name, corporation_ticker, member_count,
	alliance_id, alliance_name, alliance_ticker,
	token_id, token_character_id, token_character_name, token_user_id, last_update`

const memberColumns = `id, character_id, character_name, location_id, location_name,
	ship_type_id, ship_type_name, logon_date, logoff_date, start_date,
	registered, main_character_id, main_character_name, is_main`

func (s *PostgresStore) Save(ctx context.Context, snapshot *models.Snapshot) (*models.Snapshot, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	newID := snapshot.ID
	if newID.IsNil() {
		newID = id.NewSnapshotID()
	}
	corp := snapshot.Corporation
	var lastUpdate sql.NullTime
	if !snapshot.LastUpdate.IsZero() {
		lastUpdate = sql.NullTime{Time: snapshot.LastUpdate, Valid: true}
	}

	var stored uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO corpstats_snapshots (`+snapshotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (corporation_id) DO UPDATE SET
			corporation_name = EXCLUDED.corporation_name,
			corporation_ticker = EXCLUDED.corporation_ticker,
			member_count = EXCLUDED.member_count,
			alliance_id = EXCLUDED.alliance_id,
			alliance_name = EXCLUDED.alliance_name,
			alliance_ticker = EXCLUDED.alliance_ticker,
			token_id = EXCLUDED.token_id,
			token_character_id = EXCLUDED.token_character_id,
			token_character_name = EXCLUDED.token_character_name,
			token_user_id = EXCLUDED.token_user_id
		RETURNING id
	`, uuid.UUID(newID), int64(corp.ID), corp.Name, corp.Ticker, corp.MemberCount,
		nullAlliance(corp.AllianceID), corp.AllianceName, corp.AllianceTicker,
		int64(snapshot.Token.ID), int64(snapshot.Token.CharacterID), snapshot.Token.CharacterName,
		int64(snapshot.Token.UserID), lastUpdate,
	).Scan(&stored)
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	if stored == uuid.UUID(newID) && len(snapshot.Members) > 0 {
		if err := upsertMembers(ctx, s.db, id.SnapshotID(stored), snapshot.Members); err != nil {
			return nil, err
		}
	}
	return s.FindByID(ctx, id.SnapshotID(stored))
}

func (s *PostgresStore) Create(ctx context.Context, snapshot *models.Snapshot) (*models.Snapshot, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	newID := snapshot.ID
	if newID.IsNil() {
		newID = id.NewSnapshotID()
	}
	corp := snapshot.Corporation

	var stored uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO corpstats_snapshots (`+snapshotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULL)
		ON CONFLICT (corporation_id) DO NOTHING
		RETURNING id
	`, uuid.UUID(newID), int64(corp.ID), corp.Name, corp.Ticker, corp.MemberCount,
		nullAlliance(corp.AllianceID), corp.AllianceName, corp.AllianceTicker,
		int64(snapshot.Token.ID), int64(snapshot.Token.CharacterID), snapshot.Token.CharacterName,
		int64(snapshot.Token.UserID),
	).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	return s.FindByID(ctx, id.SnapshotID(stored))
}

func (s *PostgresStore) FindByID(ctx context.Context, snapshotID id.SnapshotID) (*models.Snapshot, error) {
	return s.findOne(ctx, `SELECT `+snapshotColumns+` FROM corpstats_snapshots WHERE id = $1`, uuid.UUID(snapshotID))
}

func (s *PostgresStore) FindByCorporation(ctx context.Context, corporationID id.CorporationID) (*models.Snapshot, error) {
	return s.findOne(ctx, `SELECT `+snapshotColumns+` FROM corpstats_snapshots WHERE corporation_id = $1`, int64(corporationID))
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.Snapshot, error) {
	snapshot, err := scanSnapshot(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	members, err := loadMembers(ctx, s.db, snapshot.ID)
	if err != nil {
		return nil, err
	}
	snapshot.Members = members
	return snapshot, nil
}

// List returns every snapshot ordered by corporation name.
func (s *PostgresStore) List(ctx context.Context) ([]*models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+snapshotColumns+` FROM corpstats_snapshots ORDER BY corporation_name, corporation_id`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var out []*models.Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, snapshot)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	_ = rows.Close()

	for _, snapshot := range out {
		members, err := loadMembers(ctx, s.db, snapshot.ID)
		if err != nil {
			return nil, err
		}
		snapshot.Members = members
	}
	return out, nil
}

// Delete removes a snapshot; its members go with it through ON DELETE CASCADE.
func (s *PostgresStore) Delete(ctx context.Context, snapshotID id.SnapshotID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM corpstats_snapshots WHERE id = $1`, uuid.UUID(snapshotID))
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// RunInTx executes fn inside one database transaction and commits only when
// fn succeeds.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(tx ports.MemberTx) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := s.txTimeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(&postgresTx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type postgresTx struct {
	tx *sql.Tx
}

func (t *postgresTx) DeleteMembers(ctx context.Context, snapshotID id.SnapshotID, characterIDs []id.CharacterID) error {
	if len(characterIDs) == 0 {
		return nil
	}
	raw := make([]int64, len(characterIDs))
	for i, characterID := range characterIDs {
		raw[i] = int64(characterID)
	}
	_, err := t.tx.ExecContext(ctx,
		`DELETE FROM corpstats_members WHERE snapshot_id = $1 AND character_id = ANY($2)`,
		uuid.UUID(snapshotID), raw)
	if err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	return nil
}

func (t *postgresTx) UpsertMembers(ctx context.Context, snapshotID id.SnapshotID, members []models.Member) error {
	if err := requireSnapshot(ctx, t.tx, snapshotID); err != nil {
		return err
	}
	return upsertMembers(ctx, t.tx, snapshotID, members)
}

func (t *postgresTx) SetLastUpdate(ctx context.Context, snapshotID id.SnapshotID, at time.Time) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE corpstats_snapshots SET last_update = $2 WHERE id = $1`,
		uuid.UUID(snapshotID), at)
	if err != nil {
		return fmt.Errorf("set last update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set last update rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func requireSnapshot(ctx context.Context, exec executor, snapshotID id.SnapshotID) error {
	var exists bool
	err := exec.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM corpstats_snapshots WHERE id = $1)`,
		uuid.UUID(snapshotID)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check snapshot: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return nil
}

// upsertMembers writes rows keyed by (snapshot_id, character_id). The row id is
// only set on insert, so existing members keep their identity.
func upsertMembers(ctx context.Context, exec executor, snapshotID id.SnapshotID, members []models.Member) error {
	for _, m := range members {
		memberID := m.ID
		if memberID == (id.MemberID{}) {
			memberID = id.NewMemberID()
		}
		var mainID sql.NullInt64
		var mainName string
		if m.MainCharacter != nil {
			mainID = sql.NullInt64{Int64: int64(m.MainCharacter.ID), Valid: true}
			mainName = m.MainCharacter.Name
		}
		_, err := exec.ExecContext(ctx, `
			INSERT INTO corpstats_members (snapshot_id, `+memberColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			ON CONFLICT (snapshot_id, character_id) DO UPDATE SET
				character_name = EXCLUDED.character_name,
				location_id = EXCLUDED.location_id,
				location_name = EXCLUDED.location_name,
				ship_type_id = EXCLUDED.ship_type_id,
				ship_type_name = EXCLUDED.ship_type_name,
				logon_date = EXCLUDED.logon_date,
				logoff_date = EXCLUDED.logoff_date,
				start_date = EXCLUDED.start_date,
				registered = EXCLUDED.registered,
				main_character_id = EXCLUDED.main_character_id,
				main_character_name = EXCLUDED.main_character_name,
				is_main = EXCLUDED.is_main
		`, uuid.UUID(snapshotID), uuid.UUID(memberID), int64(m.CharacterID), m.CharacterName,
			int64(m.LocationID), m.LocationName, int64(m.ShipTypeID), m.ShipTypeName,
			nullTime(m.LogonDate), nullTime(m.LogoffDate), nullTime(m.StartDate),
			m.Registered, mainID, mainName, m.IsMain)
		if err != nil {
			return fmt.Errorf("upsert member %d: %w", m.CharacterID, err)
		}
	}
	return nil
}

func loadMembers(ctx context.Context, exec executor, snapshotID id.SnapshotID) ([]models.Member, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM corpstats_members WHERE snapshot_id = $1 ORDER BY character_id`,
		uuid.UUID(snapshotID))
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var (
			memberID                      uuid.UUID
			characterID, locationID, ship int64
			logon, logoff, start          sql.NullTime
			mainID                        sql.NullInt64
			mainName                      string
			m                             models.Member
		)
		if err := rows.Scan(&memberID, &characterID, &m.CharacterName, &locationID, &m.LocationName,
			&ship, &m.ShipTypeName, &logon, &logoff, &start,
			&m.Registered, &mainID, &mainName, &m.IsMain); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.ID = id.MemberID(memberID)
		m.CharacterID = id.CharacterID(characterID)
		m.LocationID = id.LocationID(locationID)
		m.ShipTypeID = id.TypeID(ship)
		m.LogonDate = timePtr(logon)
		m.LogoffDate = timePtr(logoff)
		m.StartDate = timePtr(start)
		if mainID.Valid {
			m.MainCharacter = &models.CharacterRef{ID: id.CharacterID(mainID.Int64), Name: mainName}
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// executor is the query surface shared by *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*models.Snapshot, error) {
	var (
		snapshotID                            uuid.UUID
		corpID, tokenID, tokenChar, tokenUser int64
		allianceID                            sql.NullInt64
		lastUpdate                            sql.NullTime
		snapshot                              models.Snapshot
	)
	err := row.Scan(&snapshotID, &corpID, &snapshot.Corporation.Name, &snapshot.Corporation.Ticker,
		&snapshot.Corporation.MemberCount, &allianceID, &snapshot.Corporation.AllianceName,
		&snapshot.Corporation.AllianceTicker, &tokenID, &tokenChar, &snapshot.Token.CharacterName,
		&tokenUser, &lastUpdate)
	if err != nil {
		return nil, err
	}
	snapshot.ID = id.SnapshotID(snapshotID)
	snapshot.Corporation.ID = id.CorporationID(corpID)
	if allianceID.Valid {
		alliance := id.AllianceID(allianceID.Int64)
		snapshot.Corporation.AllianceID = &alliance
	}
	snapshot.Token.ID = id.TokenID(tokenID)
	snapshot.Token.CharacterID = id.CharacterID(tokenChar)
	snapshot.Token.UserID = id.UserID(tokenUser)
	if lastUpdate.Valid {
		snapshot.LastUpdate = lastUpdate.Time
	}
	return &snapshot, nil
}

func nullAlliance(allianceID *id.AllianceID) sql.NullInt64 {
	if allianceID == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*allianceID), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
