package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
)

// Remote calls a model served behind a TensorFlow Serving style REST
// endpoint: POST {"instances": [[ids...]]} -> {"predictions": [[p...]]}.
type Remote struct {
	// URL is the full predict endpoint, e.g.
	// http://localhost:8501/v1/models/sentiment:predict
	URL string

	HTTPClient *http.Client
}

type predictRequest struct {
	Instances [][]int `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error"`
}

// Predict implements Classifier. Failures are wrapped in ErrInference and
// never retried.
func (r *Remote) Predict(ctx context.Context, sequence []int) ([]float64, error) {
	if r.URL == "" {
		return nil, fmt.Errorf("%w: classifier URL required", internalerr.ErrInference)
	}

	payload, err := r.send(ctx, sequence)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInference, err)
	}
	if len(payload.Predictions) != 1 {
		return nil, fmt.Errorf("%w: expected 1 prediction, got %d", internalerr.ErrInference, len(payload.Predictions))
	}

	probs := payload.Predictions[0]
	if err := Validate(probs); err != nil {
		return nil, err
	}
	return probs, nil
}

func (r *Remote) send(ctx context.Context, sequence []int) (*predictResponse, error) {
	reqBody, err := json.Marshal(predictRequest{Instances: [][]int{sequence}})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("model server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("model error: %s", payload.Error)
	}
	return &payload, nil
}

// httpClient has no timeout by default; a slow model blocks the request
// until the caller's context ends.
func (r *Remote) httpClient() *http.Client {
	if r.HTTPClient != nil {
		return r.HTTPClient
	}
	return http.DefaultClient
}
