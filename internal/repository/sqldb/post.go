package sqldb

import (
	"context"
	"fmt"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/jmoiron/sqlx"
)

type schedulePostRepository struct {
	db *sqlx.DB
}

// NewSchedulePostRepository creates a new schedule post repository
func NewSchedulePostRepository(db *sqlx.DB) repository.SchedulePostRepository {
	return &schedulePostRepository{db: db}
}

const postColumns = `id, schedule_id, time_label, title, body, created_at`

func (r *schedulePostRepository) Create(ctx context.Context, post *models.SchedulePost) (*models.SchedulePost, error) {
	post.CreatedAt = models.Now()
	id, err := insertID(ctx, r.db, `
		INSERT INTO schedule_posts (schedule_id, time_label, title, body, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		post.ScheduleID, post.TimeLabel, post.Title, post.Body, post.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule post: %w", err)
	}
	post.ID = id
	return post, nil
}

func (r *schedulePostRepository) GetByID(ctx context.Context, id int64) (*models.SchedulePost, error) {
	post := &models.SchedulePost{}
	found, err := getOne(ctx, r.db, post, `SELECT `+postColumns+` FROM schedule_posts WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule post: %w", err)
	}
	if !found {
		return nil, nil
	}
	return post, nil
}

func (r *schedulePostRepository) ListBySchedule(ctx context.Context, scheduleID int64) ([]*models.SchedulePost, error) {
	var posts []*models.SchedulePost
	err := selectAll(ctx, r.db, &posts, `
		SELECT `+postColumns+`
		FROM schedule_posts
		WHERE schedule_id = ?
		ORDER BY time_label ASC, id ASC`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule posts: %w", err)
	}
	return posts, nil
}

func (r *schedulePostRepository) Update(ctx context.Context, post *models.SchedulePost) (*models.SchedulePost, error) {
	err := execOne(ctx, r.db, `
		UPDATE schedule_posts SET time_label = ?, title = ?, body = ?
		WHERE id = ?`,
		post.TimeLabel, post.Title, post.Body, post.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule post %d: %w", post.ID, err)
	}
	return post, nil
}

func (r *schedulePostRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM schedule_posts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete schedule post %d: %w", id, err)
	}
	return nil
}
