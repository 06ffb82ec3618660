package classifier

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		probs []float64
		want  string
	}{
		{[]float64{0.1, 0.2, 0.7}, "Positive"},
		{[]float64{0.8, 0.1, 0.1}, "Negative"},
		{[]float64{0.2, 0.6, 0.2}, "Neutral"},
		{[]float64{0.4, 0.4, 0.2}, "Negative"},
	}
	for _, tt := range tests {
		got, err := Label(tt.probs)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v", tt.probs)
	}
}

func TestValidateRejectsMalformedOutput(t *testing.T) {
	for name, probs := range map[string][]float64{
		"short": {0.5, 0.5},
		"long":  {0.25, 0.25, 0.25, 0.25},
		"nan":   {math.NaN(), 0.5, 0.5},
		"inf":   {math.Inf(1), 0, 0},
	} {
		err := Validate(probs)
		assert.ErrorIs(t, err, internalerr.ErrInference, name)
	}
}

func TestStaticCopiesOutput(t *testing.T) {
	c := Static(0.1, 0.2, 0.7)
	got, err := c.Predict(context.Background(), make([]int, 100))
	require.NoError(t, err)
	got[0] = 9
	again, _ := c.Predict(context.Background(), nil)
	assert.Equal(t, []float64{0.1, 0.2, 0.7}, again)
}

func TestRemotePredict(t *testing.T) {
	var received predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predictions": [[0.1, 0.2, 0.7]]}`))
	}))
	defer srv.Close()

	remote := &Remote{URL: srv.URL}
	seq := make([]int, 100)
	seq[99] = 42

	probs, err := remote.Predict(context.Background(), seq)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.7}, probs)
	require.Len(t, received.Instances, 1)
	assert.Equal(t, seq, received.Instances[0])
}

func TestRemoteErrors(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		},
		"wrong shape": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"predictions": [[0.5, 0.5]]}`))
		},
		"no predictions": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"predictions": []}`))
		},
		"model error": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": "bad input"}`))
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		},
	}

	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := (&Remote{URL: srv.URL}).Predict(context.Background(), make([]int, 100))
			assert.ErrorIs(t, err, internalerr.ErrInference)
		})
	}

	_, err := (&Remote{}).Predict(context.Background(), nil)
	assert.ErrorIs(t, err, internalerr.ErrInference)
}
