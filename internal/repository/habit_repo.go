package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitly/internal/model"
)

// ErrHabitNotFound reports a mutation or lookup against an absent habit id.
var ErrHabitNotFound = errors.New("habit not found")

type HabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *HabitRepository {
	return &HabitRepository{
		db:     db,
		logger: logger,
	}
}

// InsertMany writes a batch of habit records in one transaction. Used by the
// daily generator; either the whole template lands or none of it does.
func (r *HabitRepository) InsertMany(ctx context.Context, habits []model.Habit) error {
	if len(habits) == 0 {
		return nil
	}

	r.logger.Debug("Inserting habit batch", zap.Int("count", len(habits)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin insert batch: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO habits (id, name, deadline, description, status, date)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	for _, h := range habits {
		if _, err := tx.Exec(ctx, query,
			h.ID,
			h.Name,
			h.Deadline,
			h.Description,
			h.Status,
			h.Date,
		); err != nil {
			r.logger.Error("Failed to insert habit",
				zap.String("name", h.Name),
				zap.Error(err),
			)
			return fmt.Errorf("insert habit %q: %w", h.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit habit batch", zap.Error(err))
		return fmt.Errorf("commit insert batch: %w", err)
	}

	r.logger.Info("Habit batch inserted", zap.Int("count", len(habits)))
	return nil
}

// FindBetween returns habits whose date falls in the half-open [start, end)
// window, oldest first.
func (r *HabitRepository) FindBetween(ctx context.Context, start, end time.Time) ([]model.Habit, error) {
	query := `
        SELECT id, name, deadline, description, status, date
        FROM habits
        WHERE date >= $1 AND date < $2
        ORDER BY deadline ASC
    `

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		r.logger.Error("Failed to query habits by window", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanHabits(rows)
}

// FindAll returns the full habit history, used by the completion aggregator
// on a cache miss.
func (r *HabitRepository) FindAll(ctx context.Context) ([]model.Habit, error) {
	query := `
        SELECT id, name, deadline, description, status, date
        FROM habits
        ORDER BY date DESC
    `

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query habit history", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanHabits(rows)
}

// FindByID returns a habit by id, or ErrHabitNotFound.
func (r *HabitRepository) FindByID(ctx context.Context, id string) (*model.Habit, error) {
	query := `
        SELECT id, name, deadline, description, status, date
        FROM habits
        WHERE id = $1
    `
	var h model.Habit
	err := r.db.QueryRow(ctx, query, id).Scan(
		&h.ID,
		&h.Name,
		&h.Deadline,
		&h.Description,
		&h.Status,
		&h.Date,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// UpdateStatus sets the completion flag on one record and returns the
// updated row, or ErrHabitNotFound when the id does not exist.
func (r *HabitRepository) UpdateStatus(ctx context.Context, id string, status bool) (*model.Habit, error) {
	query := `
        UPDATE habits
        SET status = $1
        WHERE id = $2
        RETURNING id, name, deadline, description, status, date
    `
	var h model.Habit
	err := r.db.QueryRow(ctx, query, status, id).Scan(
		&h.ID,
		&h.Name,
		&h.Deadline,
		&h.Description,
		&h.Status,
		&h.Date,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update habit status",
			zap.String("id", id),
			zap.Error(err),
		)
		return nil, err
	}

	return &h, nil
}

func scanHabits(rows pgx.Rows) ([]model.Habit, error) {
	var habits []model.Habit
	for rows.Next() {
		var h model.Habit
		if err := rows.Scan(
			&h.ID,
			&h.Name,
			&h.Deadline,
			&h.Description,
			&h.Status,
			&h.Date,
		); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}
