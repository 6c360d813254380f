// Package semantic provides similarity scoring and suggestion generation
// backed by an embedding model, with a neutral fallback when no provider is
// configured or the remote service is unavailable.
package semantic

import "context"

// Provider scores the semantic similarity of two texts on a [0, 1] scale.
type Provider interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
	ModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// Suggester generates free-form improvement suggestions. Providers that
// cannot generate text simply don't implement it.
type Suggester interface {
	Suggest(ctx context.Context, input SuggestInput) ([]string, error)
}

// SuggestInput carries the context a suggestion request is built from.
type SuggestInput struct {
	ResumeText      string
	JobText         string
	MissingSkills   []string
	MissingKeywords []string
}

// ModelInfo describes the model behind a provider, used by health checks.
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// NeutralProvider answers every similarity query with 0.5, making the
// semantic component contribute neither positively nor negatively. It is the
// stand-in when no API key is configured.
type NeutralProvider struct{}

var _ Provider = (*NeutralProvider)(nil)

const neutralSimilarity = 0.5

func (NeutralProvider) Similarity(ctx context.Context, a, b string) (float64, error) {
	return neutralSimilarity, nil
}

func (NeutralProvider) ModelInfo(ctx context.Context) *ModelInfo {
	return &ModelInfo{Name: "neutral", Available: false}
}

func (NeutralProvider) Close() error { return nil }
