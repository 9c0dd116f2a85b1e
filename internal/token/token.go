// Package token counts tokens in rendered text. The renderer treats counter
// failures as fatal, so implementations must return an error rather than a
// guessed count when they cannot tokenize input.
package token

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter measures the token count of a text, deterministically for a
// given encoding.
type Counter interface {
	Count(text string) (int, error)
}

// DefaultEncoding is the BPE encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

type tiktokenCounter struct {
	encoder *tiktoken.Tiktoken
}

// NewTiktokenCounter returns a Counter backed by the named BPE encoding.
func NewTiktokenCounter(encoding string) (Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	encoder, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %q: %w", encoding, err)
	}
	return &tiktokenCounter{encoder: encoder}, nil
}

func (c *tiktokenCounter) Count(text string) (int, error) {
	return len(c.encoder.Encode(text, nil, nil)), nil
}

type estimateCounter struct{}

// NewEstimateCounter returns a Counter that approximates tokens as one per
// four bytes. Useful for fast runs where exact budgets matter less.
func NewEstimateCounter() Counter {
	return estimateCounter{}
}

func (estimateCounter) Count(text string) (int, error) {
	return (len(text) + 3) / 4, nil
}
