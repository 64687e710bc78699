package models

import "time"

// Analysis represents a stored classification result
type Analysis struct {
	ID             string    `json:"id"`
	UserID         int64     `json:"user_id"`
	PredictedClass string    `json:"predicted_class"`
	Confidence     float64   `json:"confidence"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
}
