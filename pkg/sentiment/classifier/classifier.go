// Package classifier defines the contract with the external sentiment
// model and an HTTP client for models served over REST.
package classifier

import (
	"context"
	"fmt"
	"math"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
)

// Labels are the output classes in the order the model was trained with.
// Reordering them silently corrupts every prediction.
var Labels = [3]string{"Negative", "Neutral", "Positive"}

// Classifier scores one fixed-length id sequence and returns one
// probability per entry of Labels.
type Classifier interface {
	Predict(ctx context.Context, sequence []int) ([]float64, error)
}

// Func adapts a function to Classifier.
type Func func(ctx context.Context, sequence []int) ([]float64, error)

// Predict implements Classifier.
func (f Func) Predict(ctx context.Context, sequence []int) ([]float64, error) {
	return f(ctx, sequence)
}

// Static returns the same probabilities for every input.
func Static(probs ...float64) Classifier {
	return Func(func(context.Context, []int) ([]float64, error) {
		out := make([]float64, len(probs))
		copy(out, probs)
		return out, nil
	})
}

// Validate checks the shape and values of a model output.
func Validate(probs []float64) error {
	if len(probs) != len(Labels) {
		return fmt.Errorf("%w: expected %d probabilities, got %d", internalerr.ErrInference, len(Labels), len(probs))
	}
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: probability %d is not finite", internalerr.ErrInference, i)
		}
	}
	return nil
}

// Label returns the label with the highest probability. The first
// maximum wins on ties.
func Label(probs []float64) (string, error) {
	if err := Validate(probs); err != nil {
		return "", err
	}
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return Labels[best], nil
}
