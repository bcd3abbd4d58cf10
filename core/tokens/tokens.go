// Package tokens estimates token counts for generated text. Counts are
// informational (CLI reporting, log attributes); vendors remain the source of
// truth for billing.
package tokens

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the BPE vocabulary used for estimates. cl100k_base is close
// enough across modern models for an informational count.
const encodingName = "cl100k_base"

// Estimator counts tokens with a tiktoken encoding. The zero value is not
// usable; construct with New.
type Estimator struct {
	encoding *tiktoken.Tiktoken
}

// New loads the shared BPE encoding. The underlying vocabulary is cached by
// tiktoken, so constructing multiple estimators is cheap after the first.
func New() (*Estimator, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoding: %w", encodingName, err)
	}
	return &Estimator{encoding: encoding}, nil
}

// Count returns the number of tokens in text.
func (e *Estimator) Count(text string) int {
	return len(e.encoding.Encode(text, nil, nil))
}

var (
	sharedOnce      sync.Once
	sharedEstimator *Estimator
)

// Estimate returns a best-effort token count for text using a lazily
// initialized shared estimator. When the encoding cannot be loaded (offline
// first run with no cached vocabulary) it falls back to the rough
// four-characters-per-token heuristic rather than failing.
func Estimate(text string) int {
	sharedOnce.Do(func() {
		estimator, err := New()
		if err == nil {
			sharedEstimator = estimator
		}
	})

	if sharedEstimator == nil {
		return (len(text) + 3) / 4
	}
	return sharedEstimator.Count(text)
}
