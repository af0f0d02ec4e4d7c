package gateway

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/user/vida-loka-geracoes/internal/types"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"json": func(v any) (string, error) {
		data, err := json.MarshalIndent(v, "", "  ")
		return string(data), err
	},
}).ParseFS(promptFS, "prompts/*.tmpl"))

var statNames = strings.Join(types.AllStats, ", ")

// Gateway implements interfaces.ContentGateway on top of a Generator
type Gateway struct {
	generator Generator
	policy    RetryPolicy
	logger    *zap.Logger
}

// New creates a gateway. A nil logger discards logs.
func New(generator Generator, policy RetryPolicy, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		generator: generator,
		policy:    policy.normalized(),
		logger:    logger,
	}
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// generate renders a prompt and runs generate-then-parse under the retry
// policy, so malformed output is retried like a transport failure.
func generate[T any](ctx context.Context, g *Gateway, op, tmpl string, data any, parse func(string) (T, error)) (T, error) {
	prompt, err := render(tmpl, data)
	if err != nil {
		var zero T
		return zero, err
	}

	return withRetry(ctx, g.policy, g.logger, op, func(ctx context.Context) (T, error) {
		text, err := g.generator.Generate(ctx, prompt)
		if err != nil {
			var zero T
			return zero, err
		}
		result, err := parse(text)
		if err != nil {
			g.logger.Debug("Rejected generator output", zap.String("op", op), zap.String("text", text))
		}
		return result, err
	})
}

// lenient wraps a parser that drops malformed optional values and logs
// whatever it dropped from an otherwise accepted payload.
func lenient[T any](g *Gateway, op string, parse func(string, *drops) (T, error)) func(string) (T, error) {
	return func(text string) (T, error) {
		var dropped drops
		result, err := parse(text, &dropped)
		if err == nil && len(dropped) > 0 {
			g.logger.Warn("Dropped malformed fields from generator output",
				zap.String("op", op), zap.Strings("fields", dropped))
		}
		return result, err
	}
}

// RequestEvent asks the generator for the character's next event
func (g *Gateway) RequestEvent(ctx context.Context, summary types.CharacterSummary, facts types.EventFacts) (*types.Event, error) {
	data := struct {
		Summary   types.CharacterSummary
		Facts     types.EventFacts
		StatNames string
	}{summary, facts, statNames}
	return generate(ctx, g, "request_event", "event.tmpl", data, lenient(g, "request_event", parseEvent))
}

// EvaluateFreeformResponse turns the player's free text into a Choice
func (g *Gateway) EvaluateFreeformResponse(ctx context.Context, summary types.CharacterSummary, eventText, playerText string) (*types.Choice, error) {
	data := struct {
		Summary    types.CharacterSummary
		EventText  string
		PlayerText string
		StatNames  string
	}{summary, eventText, playerText, statNames}
	return generate(ctx, g, "evaluate_response", "freeform.tmpl", data, lenient(g, "evaluate_response", parseChoice))
}

// RequestWorldEvent asks for the event that marked the given year
func (g *Gateway) RequestWorldEvent(ctx context.Context, year int, climate types.EconomicClimate) (*types.WorldEvent, error) {
	data := struct {
		Year      int
		Climate   types.EconomicClimate
		StatNames string
	}{year, climate, statNames}
	return generate(ctx, g, "request_world_event", "world.tmpl", data, func(text string) (*types.WorldEvent, error) {
		return ParseWorldEvent(text, year)
	})
}

// RequestCatastrophicEvent asks for a catastrophe tailored to the character
func (g *Gateway) RequestCatastrophicEvent(ctx context.Context, summary types.CharacterSummary) (*types.Choice, error) {
	data := struct {
		Summary   types.CharacterSummary
		StatNames string
	}{summary, statNames}
	return generate(ctx, g, "request_catastrophe", "catastrophe.tmpl", data, lenient(g, "request_catastrophe", parseChoice))
}
