// Package gemini provides a client for Google's Gemini AI API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash-lite"

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("empty response from Gemini API")

// Config selects the backend and model.
type Config struct {
	// APIKey selects the Gemini API backend. When empty, Vertex AI with
	// Application Default Credentials is used for GCPProject.
	APIKey     string
	Model      string
	GCPProject string
	Location   string
	// BaseURL overrides the API endpoint.
	BaseURL     string
	Temperature float32
}

// Client represents a Gemini API client.
type Client struct {
	genai       *genai.Client
	logger      Logger
	model       string
	temperature float32
}

// NewClient creates the underlying genai client once; it is shared by all requests.
func NewClient(ctx context.Context, cfg Config, logger Logger) (*Client, error) {
	var config *genai.ClientConfig

	if cfg.APIKey != "" {
		config = &genai.ClientConfig{
			Backend: genai.BackendGeminiAPI,
			APIKey:  cfg.APIKey,
		}
		logger.Info("Using Gemini API with API key")
	} else {
		if cfg.GCPProject == "" {
			return nil, errors.New("gemini: either an API key or a GCP project is required")
		}
		location := cfg.Location
		if location == "" {
			location = "us-central1"
		}
		config = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.GCPProject,
			Location: location,
		}
		logger.Info("Using Vertex AI with Application Default Credentials", "project", cfg.GCPProject, "location", location)
	}
	if cfg.BaseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := strings.TrimPrefix(cfg.Model, "models/")
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		genai:       client,
		logger:      logger,
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt to the model and returns the generated text verbatim.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	var genConfig *genai.GenerateContentConfig
	if c.temperature > 0 {
		temperature := c.temperature
		genConfig = &genai.GenerateContentConfig{Temperature: &temperature}
	}

	c.logger.Debug("Calling Gemini", "model", c.model, "prompt_length", len(prompt))
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("Gemini response received", "model", c.model, "response_length", len(text))
	return text, nil
}

// Close releases the client. genai holds no resources that need an explicit release.
func (c *Client) Close() error {
	return nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
