// Package assistant wraps the Gemini API behind the two operations CONFIA
// needs: extracting expense fields from a receipt image and answering
// finance questions with the current dashboard snapshot as context. Every
// failure is converted into a fallback result; nothing here is fatal.
package assistant

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const (
	// DefaultModelName is the default Gemini model for both operations.
	DefaultModelName = "gemini-2.5-flash"

	// FallbackReply is returned by Chat when the model call fails.
	FallbackReply = "Ocorreu um erro ao processar sua pergunta. Tente novamente em instantes."
)

// Modeler is the slice of the Gemini client the assistant uses; it exists
// so tests can substitute a scripted model.
type Modeler interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client is the CONFIA assistant.
type Client struct {
	models Modeler
	model  string
	log    zerolog.Logger
}

// New creates an assistant client. The Gemini API key is read from the
// environment by the genai SDK.
func New(ctx context.Context, model string, log zerolog.Logger) (*Client, error) {
	if model == "" {
		model = DefaultModelName
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("assistant: create genai client: %w", err)
	}

	return &Client{models: client.Models, model: model, log: log}, nil
}

// NewWithModeler creates an assistant backed by a custom model caller.
func NewWithModeler(models Modeler, model string, log zerolog.Logger) *Client {
	if model == "" {
		model = DefaultModelName
	}
	return &Client{models: models, model: model, log: log}
}
