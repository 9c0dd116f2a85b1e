package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidBudget indicates a token budget below the usable minimum
	ErrInvalidBudget = errors.New("invalid token budget")

	// ErrInvalidDamping indicates a damping factor outside (0, 1)
	ErrInvalidDamping = errors.New("invalid damping factor")

	// ErrInvalidEpsilon indicates a non-positive convergence threshold
	ErrInvalidEpsilon = errors.New("invalid epsilon")

	// ErrInvalidIterations indicates a non-positive iteration cap
	ErrInvalidIterations = errors.New("invalid max iterations")

	// ErrInvalidBoost indicates a non-positive boost factor
	ErrInvalidBoost = errors.New("invalid boost factor")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Map.TokenBudget < MinTokenBudget {
		errs = append(errs, fmt.Errorf("%w: %d (minimum %d)", ErrInvalidBudget, cfg.Map.TokenBudget, MinTokenBudget))
	}

	if cfg.Ranking.Damping <= 0 || cfg.Ranking.Damping >= 1 {
		errs = append(errs, fmt.Errorf("%w: %g (must be in (0, 1))", ErrInvalidDamping, cfg.Ranking.Damping))
	}
	if cfg.Ranking.Epsilon <= 0 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidEpsilon, cfg.Ranking.Epsilon))
	}
	if cfg.Ranking.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidIterations, cfg.Ranking.MaxIterations))
	}
	if cfg.Ranking.FocusBoost <= 0 {
		errs = append(errs, fmt.Errorf("%w: focus_boost %g", ErrInvalidBoost, cfg.Ranking.FocusBoost))
	}
	if cfg.Ranking.MentionBoost <= 0 {
		errs = append(errs, fmt.Errorf("%w: mention_boost %g", ErrInvalidBoost, cfg.Ranking.MentionBoost))
	}
	if cfg.Ranking.CommonFactor <= 0 || cfg.Ranking.CommonFactor > 1 {
		errs = append(errs, fmt.Errorf("%w: common_factor %g (must be in (0, 1])", ErrInvalidBoost, cfg.Ranking.CommonFactor))
	}

	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return errors.New(strings.Join(msgs, "; "))
}
