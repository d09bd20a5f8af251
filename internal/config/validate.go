package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyModel indicates a missing embedding model identifier.
	ErrEmptyModel = errors.New("empty embedding model")

	// ErrInvalidBatchSize indicates a non-positive embedding batch size.
	ErrInvalidBatchSize = errors.New("invalid embedding batch size")

	// ErrInvalidWeight indicates a search weight outside [0, 1].
	ErrInvalidWeight = errors.New("invalid search weight")

	// ErrInvalidHalfLife indicates a non-positive recency half-life.
	ErrInvalidHalfLife = errors.New("invalid recency half-life")

	// ErrInvalidRRFK indicates a non-positive RRF constant.
	ErrInvalidRRFK = errors.New("invalid rrf_k")

	// ErrInvalidCouplingDepth indicates a non-positive coupling commit depth.
	ErrInvalidCouplingDepth = errors.New("invalid coupling depth")

	// ErrInvalidCouplingThreshold indicates a negative coupling threshold.
	ErrInvalidCouplingThreshold = errors.New("invalid coupling threshold")

	// ErrInvalidCommitsDepth indicates a non-positive commit index depth.
	ErrInvalidCommitsDepth = errors.New("invalid commits depth")
)

// Validate checks that the configuration is internally consistent.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateEmbedding(&cfg.Embedding); err != nil {
		errs = append(errs, err)
	}
	if err := validateSearch(&cfg.Search); err != nil {
		errs = append(errs, err)
	}
	if err := validateGit(&cfg.Git); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateEmbedding(cfg *EmbeddingConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Model) == "" {
		errs = append(errs, fmt.Errorf("%w: model is required", ErrEmptyModel))
	}
	if cfg.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidBatchSize, cfg.BatchSize))
	}
	if cfg.Context.ContextLines < 0 {
		errs = append(errs, fmt.Errorf("context_lines cannot be negative, got %d", cfg.Context.ContextLines))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateSearch(cfg *SearchConfig) error {
	var errs []error

	if cfg.SemanticWeight < 0 || cfg.SemanticWeight > 1 {
		errs = append(errs, fmt.Errorf("%w: semantic_weight must be in [0,1], got %f", ErrInvalidWeight, cfg.SemanticWeight))
	}
	if cfg.DocDemotion < 0 || cfg.DocDemotion > 1 {
		errs = append(errs, fmt.Errorf("%w: doc_demotion must be in [0,1], got %f", ErrInvalidWeight, cfg.DocDemotion))
	}
	if cfg.RecencyWeight < 0 || cfg.RecencyWeight > 1 {
		errs = append(errs, fmt.Errorf("%w: recency_weight must be in [0,1], got %f", ErrInvalidWeight, cfg.RecencyWeight))
	}
	if cfg.RecencyHalfLifeDays <= 0 {
		errs = append(errs, fmt.Errorf("%w: recency_half_life_days must be positive, got %f", ErrInvalidHalfLife, cfg.RecencyHalfLifeDays))
	}
	if cfg.RRFK <= 0 {
		errs = append(errs, fmt.Errorf("%w: rrf_k must be positive, got %d", ErrInvalidRRFK, cfg.RRFK))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateGit(cfg *GitConfig) error {
	var errs []error

	if cfg.CouplingEnabled && cfg.CouplingDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: coupling_depth must be positive, got %d", ErrInvalidCouplingDepth, cfg.CouplingDepth))
	}
	if cfg.CouplingThreshold < 0 {
		errs = append(errs, fmt.Errorf("%w: coupling_threshold cannot be negative, got %d", ErrInvalidCouplingThreshold, cfg.CouplingThreshold))
	}
	if cfg.CommitsEnabled && cfg.CommitsDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: commits_depth must be positive, got %d", ErrInvalidCommitsDepth, cfg.CommitsDepth))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// joinErrors combines multiple errors into one with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
