package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"
)

// GeminiClient wraps the Google GenAI client for Vertex AI.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	log       *zap.Logger
}

// NewGeminiClient creates a client using Application Default Credentials.
// Set GOOGLE_APPLICATION_CREDENTIALS to the service account key file path.
func NewGeminiClient(ctx context.Context, cfg GCPConfig, log *zap.Logger) (*GeminiClient, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.ProjectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: model,
		log:       log,
	}, nil
}

// Close releases resources held by the client.
func (g *GeminiClient) Close() error {
	return nil
}
