package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hperssn/recharge/internal/domain"
)

// sqlRepository holds the queries shared by the SQLite and Postgres
// backends. Queries are written with ? placeholders and rebound for the
// target dialect.
type sqlRepository struct {
	db     *sql.DB
	rebind func(string) string
}

func questionMarks(q string) string { return q }

func dollarPlaceholders(q string) string {
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const exerciseColumns = `id, title, description, duration_min, category, steps_json, tags_json, is_public, creator_id, image_url, audio_url`

func (r *sqlRepository) ListExercises(ctx context.Context, f Filter) ([]domain.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE 1 = 1`
	var args []any

	if f.PublicOnly {
		query += ` AND is_public = ?`
		args = append(args, true)
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(f.Category))
	}
	query += ` ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]domain.Exercise, 0)
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}

	return exercises, rows.Err()
}

func (r *sqlRepository) GetExercise(ctx context.Context, id string) (domain.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = ?`

	e, err := scanExercise(r.db.QueryRowContext(ctx, r.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Exercise{}, domain.ErrNotFound
	}
	return e, err
}

func (r *sqlRepository) CreateExercise(ctx context.Context, e domain.Exercise) (domain.Exercise, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	stepsJSON, err := json.Marshal(nonNil(e.Steps))
	if err != nil {
		return domain.Exercise{}, err
	}
	tagsJSON, err := json.Marshal(nonNil(e.Tags))
	if err != nil {
		return domain.Exercise{}, err
	}

	query := `
		INSERT INTO exercises (id, seq, title, description, duration_min, category, steps_json, tags_json, is_public, creator_id, image_url, audio_url, created_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM exercises), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(
		ctx,
		r.rebind(query),
		e.ID,
		e.Title,
		e.Description,
		e.Duration,
		string(e.Category),
		string(stepsJSON),
		string(tagsJSON),
		e.IsPublic,
		e.CreatorID,
		e.ImageURL,
		e.AudioURL,
		time.Now().UTC(),
	)
	if err != nil {
		return domain.Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}

	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (domain.Exercise, error) {
	var (
		e         domain.Exercise
		category  string
		stepsJSON string
		tagsJSON  string
		imageURL  sql.NullString
		audioURL  sql.NullString
	)

	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Duration,
		&category,
		&stepsJSON,
		&tagsJSON,
		&e.IsPublic,
		&e.CreatorID,
		&imageURL,
		&audioURL,
	)
	if err != nil {
		return domain.Exercise{}, err
	}

	e.Category = domain.Category(category)
	if err := json.Unmarshal([]byte(stepsJSON), &e.Steps); err != nil {
		return domain.Exercise{}, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
		return domain.Exercise{}, err
	}
	if imageURL.Valid {
		e.ImageURL = &imageURL.String
	}
	if audioURL.Valid {
		e.AudioURL = &audioURL.String
	}

	return e, nil
}

func (r *sqlRepository) SaveCompletion(ctx context.Context, record *CompletionRecord) error {
	query := `
		INSERT INTO completions (id, session_id, user_id, exercise_id, exercise_title, duration_min, rating, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		r.rebind(query),
		record.ID,
		record.SessionID,
		record.UserID,
		record.ExerciseID,
		record.ExerciseTitle,
		record.DurationMin,
		record.Rating,
		record.StartedAt,
		record.CompletedAt,
	)

	return err
}

func (r *sqlRepository) RateCompletion(ctx context.Context, sessionID string, rating int) error {
	query := `
		UPDATE completions SET rating = ?
		WHERE id = (
			SELECT id FROM completions
			WHERE session_id = ?
			ORDER BY completed_at DESC
			LIMIT 1
		)
	`

	res, err := r.db.ExecContext(ctx, r.rebind(query), rating, sessionID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCompletionNotFound
	}

	return nil
}

func (r *sqlRepository) CompletionsByUser(ctx context.Context, userID string, limit int) ([]CompletionRecord, error) {
	query := `
		SELECT id, session_id, user_id, exercise_id, exercise_title, duration_min, rating, started_at, completed_at
		FROM completions
		WHERE user_id = ?
		ORDER BY completed_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]CompletionRecord, 0)
	for rows.Next() {
		var (
			record CompletionRecord
			rating sql.NullInt64
		)

		err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.UserID,
			&record.ExerciseID,
			&record.ExerciseTitle,
			&record.DurationMin,
			&rating,
			&record.StartedAt,
			&record.CompletedAt,
		)
		if err != nil {
			return nil, err
		}

		if rating.Valid {
			v := int(rating.Int64)
			record.Rating = &v
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *sqlRepository) CompletionStats(ctx context.Context, userID string) (*CompletionStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(duration_min), 0) AS total_minutes,
			COUNT(rating) AS rated,
			AVG(rating) AS avg_rating
		FROM completions
		WHERE user_id = ?
	`

	var (
		stats     CompletionStats
		avgRating sql.NullFloat64
	)

	err := r.db.QueryRowContext(ctx, r.rebind(query), userID).Scan(
		&stats.TotalSessions,
		&stats.TotalMinutes,
		&stats.RatedSessions,
		&avgRating,
	)
	if err != nil {
		return nil, err
	}

	if avgRating.Valid {
		stats.AverageRating = avgRating.Float64
	}

	return &stats, nil
}

func (r *sqlRepository) Close() error {
	return r.db.Close()
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
