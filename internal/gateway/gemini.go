package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Generator turns a prompt into raw model text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator is a Generator backed by the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiGenerator creates a Gemini client asking for JSON output
func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is not set")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.9)

	return &GeminiGenerator{
		client: client,
		model:  model,
	}, nil
}

// Close releases the underlying client
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// Generate sends prompt and returns the text of the first candidate
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGenerateError(err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}
	return "", NewError(KindEmpty, "no content returned from Gemini")
}

func classifyGenerateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return WrapError(KindTimeout, "gemini request timed out", err)
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return WrapError(KindEmpty, "gemini blocked the response", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return WrapError(KindQuota, "gemini quota exhausted", err)
	}
	if IsQuotaMessage(err.Error()) {
		return WrapError(KindQuota, "gemini quota exhausted", err)
	}
	return WrapError(KindTransient, "gemini request failed", err)
}

var quotaMarkers = []string{"429", "resource_exhausted", "quota", "rate limit", "too many requests"}

// IsQuotaMessage reports whether an error message carries a rate-limit signal.
func IsQuotaMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
