package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

type WardrobeRepository struct {
	db *sql.DB
}

func NewWardrobeRepository(db *sql.DB) *WardrobeRepository {
	return &WardrobeRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *WardrobeRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101601)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS wardrobe_items (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	subcategory TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT '',
	silhouette TEXT NOT NULL DEFAULT '',
	style TEXT NOT NULL DEFAULT '',
	material TEXT NOT NULL DEFAULT '',
	seasons JSONB NOT NULL DEFAULT '[]'::jsonb,
	description TEXT NOT NULL DEFAULT '',
	extraction_status TEXT NOT NULL,
	extraction_error TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_wardrobe_items_user_category ON wardrobe_items(user_id, category);
CREATE INDEX IF NOT EXISTS idx_wardrobe_items_status ON wardrobe_items(extraction_status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *WardrobeRepository) Create(ctx context.Context, item *domain.WardrobeItem) error {
	seasonsJSON, err := marshalSeasons(item.Seasons)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO wardrobe_items (
	id, user_id, name, category, subcategory, color, silhouette, style, material, seasons, description,
	extraction_status, extraction_error, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
`,
		item.ID, item.UserID, item.Name, item.Category, item.Subcategory, item.Color, item.Silhouette,
		item.Style, item.Material, seasonsJSON, item.Description,
		string(item.ExtractionStatus), item.ExtractionError, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wardrobe item: %w", err)
	}
	return nil
}

const selectItemColumns = `
SELECT id, user_id, name, category, subcategory, color, silhouette, style, material, seasons, description,
	extraction_status, extraction_error, created_at, updated_at
FROM wardrobe_items
`

func (r *WardrobeRepository) GetByID(ctx context.Context, id string) (*domain.WardrobeItem, error) {
	row := r.db.QueryRowContext(ctx, selectItemColumns+"WHERE id = $1", id)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrItemNotFound, "get wardrobe item", fmt.Errorf("id=%s", id))
		}
		return nil, err
	}
	return &item, nil
}

// ListByUser returns the user's items, optionally narrowed by category and
// subcategory, oldest first.
func (r *WardrobeRepository) ListByUser(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.WardrobeItem, error) {
	query := selectItemColumns + "WHERE user_id = $1\n"
	args := []any{userID}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf("AND category = $%d\n", len(args))
	}
	if filter.Subcategory != "" {
		args = append(args, filter.Subcategory)
		query += fmt.Sprintf("AND subcategory = $%d\n", len(args))
	}
	query += "ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list wardrobe items: %w", err)
	}
	defer rows.Close()

	out := make([]domain.WardrobeItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wardrobe items: %w", err)
	}
	return out, nil
}

// UpdateAttributes fills empty columns with extracted values. Stored values
// and unresolved attributes are left as they are.
func (r *WardrobeRepository) UpdateAttributes(ctx context.Context, id string, attrs domain.ExtractedAttributes) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE wardrobe_items
SET color = COALESCE(NULLIF(color, ''), NULLIF($2, ''), color),
	silhouette = COALESCE(NULLIF(silhouette, ''), NULLIF($3, ''), silhouette),
	style = COALESCE(NULLIF(style, ''), NULLIF($4, ''), style),
	updated_at = $5
WHERE id = $1
`, id, attrs.Color.Value, attrs.Silhouette.Value, attrs.Style.Value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update wardrobe attributes: %w", err)
	}
	return ensureAffected(res, "update wardrobe attributes", id)
}

func (r *WardrobeRepository) UpdateExtractionStatus(ctx context.Context, id string, status domain.ExtractionStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE wardrobe_items
SET extraction_status = $2, extraction_error = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update extraction status: %w", err)
	}
	return ensureAffected(res, "update extraction status", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.WardrobeItem, error) {
	var item domain.WardrobeItem
	var seasonsRaw []byte
	var status string

	err := row.Scan(
		&item.ID, &item.UserID, &item.Name, &item.Category, &item.Subcategory,
		&item.Color, &item.Silhouette, &item.Style, &item.Material, &seasonsRaw, &item.Description,
		&status, &item.ExtractionError, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WardrobeItem{}, err
		}
		return domain.WardrobeItem{}, fmt.Errorf("scan wardrobe item: %w", err)
	}

	if len(seasonsRaw) > 0 {
		if err := json.Unmarshal(seasonsRaw, &item.Seasons); err != nil {
			return domain.WardrobeItem{}, fmt.Errorf("unmarshal seasons: %w", err)
		}
	}
	item.ExtractionStatus = domain.ExtractionStatus(status)
	return item, nil
}

func marshalSeasons(seasons []string) ([]byte, error) {
	if seasons == nil {
		seasons = []string{}
	}
	raw, err := json.Marshal(seasons)
	if err != nil {
		return nil, fmt.Errorf("marshal seasons: %w", err)
	}
	return raw, nil
}

func ensureAffected(res sql.Result, op, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrItemNotFound, op, fmt.Errorf("id=%s", id))
	}
	return nil
}
