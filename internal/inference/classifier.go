package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrInvalidImage reports input the model server refused to decode.
var ErrInvalidImage = errors.New("invalid image")

// Prediction is a classification result
type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// Classifier submits an image and returns its predicted class with a
// confidence score in [0,1].
type Classifier interface {
	Classify(ctx context.Context, image []byte) (*Prediction, error)
}

// HTTPClassifier calls a model server over HTTP. The backend owns no model
// weights; inference runs in a separate service reached at the configured
// endpoint.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClassifier creates a classifier client for the given endpoint
func NewHTTPClassifier(endpoint string) *HTTPClassifier {
	return &HTTPClassifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Classify posts the raw image bytes and decodes the prediction
func (h *HTTPClassifier) Classify(ctx context.Context, image []byte) (*Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model server unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, ErrInvalidImage
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	if pred.Class == "" || pred.Confidence < 0 || pred.Confidence > 1 {
		return nil, fmt.Errorf("model server returned malformed prediction")
	}

	return &pred, nil
}
