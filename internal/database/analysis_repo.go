package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"leafscan-backend/internal/models"
)

// AnalysisRepo handles classification result database operations
type AnalysisRepo struct {
	db *sql.DB
}

// NewAnalysisRepo creates a new analysis repository
func NewAnalysisRepo(db *sql.DB) *AnalysisRepo {
	return &AnalysisRepo{db: db}
}

// Create inserts a new analysis record
func (r *AnalysisRepo) Create(ctx context.Context, analysis *models.Analysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}
	if analysis.AnalyzedAt.IsZero() {
		analysis.AnalyzedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analyses (id, user_id, predicted_class, confidence, analyzed_at)
		VALUES (?, ?, ?, ?, ?)
	`, analysis.ID, analysis.UserID, analysis.PredictedClass, analysis.Confidence, analysis.AnalyzedAt)
	return err
}

// ListByUser retrieves a user's analyses, newest first
func (r *AnalysisRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Analysis, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, predicted_class, confidence, analyzed_at
		FROM analyses WHERE user_id = ?
		ORDER BY analyzed_at DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*models.Analysis
	for rows.Next() {
		a := &models.Analysis{}
		err := rows.Scan(&a.ID, &a.UserID, &a.PredictedClass, &a.Confidence, &a.AnalyzedAt)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}

// CountByUser returns the number of stored analyses for a user
func (r *AnalysisRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM analyses WHERE user_id = ?", userID,
	).Scan(&count)
	return count, err
}
