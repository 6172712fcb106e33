package sqldb

import (
	"context"
	"fmt"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/jmoiron/sqlx"
)

type memoRepository struct {
	db *sqlx.DB
}

// NewMemoRepository creates a new memo repository
func NewMemoRepository(db *sqlx.DB) repository.MemoRepository {
	return &memoRepository{db: db}
}

const memoColumns = `id, trip_id, tab_name, body, created_at`

func (r *memoRepository) Create(ctx context.Context, memo *models.Memo) (*models.Memo, error) {
	memo.CreatedAt = models.Now()
	id, err := insertID(ctx, r.db, `
		INSERT INTO memos (trip_id, tab_name, body, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		memo.TripID, memo.TabName, memo.Body, memo.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create memo: %w", err)
	}
	memo.ID = id
	return memo, nil
}

func (r *memoRepository) GetByID(ctx context.Context, id int64) (*models.Memo, error) {
	memo := &models.Memo{}
	found, err := getOne(ctx, r.db, memo, `SELECT `+memoColumns+` FROM memos WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get memo: %w", err)
	}
	if !found {
		return nil, nil
	}
	return memo, nil
}

func (r *memoRepository) ListByTrip(ctx context.Context, tripID int64, filters repository.MemoFilters) ([]*models.Memo, error) {
	query := `SELECT ` + memoColumns + ` FROM memos WHERE trip_id = ?`
	args := []any{tripID}
	switch filters.Tab {
	case "":
	case models.DefaultMemoTab:
		// Rows saved without a tab belong to the default one.
		query += ` AND tab_name IN (?, '')`
		args = append(args, filters.Tab)
	default:
		query += ` AND tab_name = ?`
		args = append(args, filters.Tab)
	}
	query += ` ORDER BY id DESC`

	var memos []*models.Memo
	if err := selectAll(ctx, r.db, &memos, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query memos: %w", err)
	}
	return memos, nil
}

func (r *memoRepository) Tabs(ctx context.Context, tripID int64) ([]string, error) {
	var tabs []string
	err := selectAll(ctx, r.db, &tabs, `
		SELECT DISTINCT tab_name
		FROM memos
		WHERE trip_id = ?
		ORDER BY tab_name`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memo tabs: %w", err)
	}
	return tabs, nil
}

func (r *memoRepository) Update(ctx context.Context, memo *models.Memo) (*models.Memo, error) {
	err := execOne(ctx, r.db, `UPDATE memos SET tab_name = ?, body = ? WHERE id = ?`,
		memo.TabName, memo.Body, memo.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update memo %d: %w", memo.ID, err)
	}
	return memo, nil
}

func (r *memoRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM memos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete memo %d: %w", id, err)
	}
	return nil
}
