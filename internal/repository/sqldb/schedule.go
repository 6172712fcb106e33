package sqldb

import (
	"context"
	"fmt"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/jmoiron/sqlx"
)

type scheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *sqlx.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `id, trip_id, title, date, start_time, end_time, detail, ` + detailsColumns + `, created_at`

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error) {
	schedule.CreatedAt = models.Now()
	args := withArgs([]any{
		schedule.TripID, schedule.Title, schedule.Date, schedule.StartTime, schedule.EndTime, schedule.Detail,
	}, detailsArgs(schedule.PlaceDetails)...)
	id, err := insertID(ctx, r.db, `
		INSERT INTO schedules (trip_id, title, date, start_time, end_time, detail, `+detailsColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		append(args, schedule.CreatedAt)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	schedule.ID = id
	return schedule, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	found, err := getOne(ctx, r.db, schedule, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	if !found {
		return nil, nil
	}
	return schedule, nil
}

func (r *scheduleRepository) ListByTrip(ctx context.Context, tripID int64) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	err := selectAll(ctx, r.db, &schedules, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE trip_id = ?
		ORDER BY date ASC, id DESC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) ListAll(ctx context.Context) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	err := selectAll(ctx, r.db, &schedules, `
		SELECT `+scheduleColumns+`
		FROM schedules
		ORDER BY date ASC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error) {
	args := withArgs([]any{
		schedule.Title, schedule.Date, schedule.StartTime, schedule.EndTime, schedule.Detail,
	}, detailsArgs(schedule.PlaceDetails)...)
	err := execOne(ctx, r.db, `
		UPDATE schedules SET title = ?, date = ?, start_time = ?, end_time = ?, detail = ?, `+detailsAssignments+`
		WHERE id = ?`,
		append(args, schedule.ID)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule %d: %w", schedule.ID, err)
	}
	return schedule, nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM schedules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete schedule %d: %w", id, err)
	}
	return nil
}
