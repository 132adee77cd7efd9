// Package narrative produces an optional plain-language advisory paragraph
// for the dashboard. The feature is disabled when no API key is configured;
// every prediction works without it.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/fieldwise/cropadvisor/internal/advisor"
	"github.com/fieldwise/cropadvisor/internal/market"
	"github.com/fieldwise/cropadvisor/internal/metrics"
)

// Generator writes advisory narratives using OpenAI's API.
type Generator struct {
	client openai.Client
	model  string
	cache  *Cache
}

// NewGenerator creates a narrative generator. It reads the OPENAI_API_KEY
// environment variable for authentication.
func NewGenerator(cacheDir string) (*Generator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Generator{
		client: client,
		model:  openai.ChatModelGPT4oMini,
		cache:  NewCache(cacheDir),
	}, nil
}

// Generate returns a short advisory paragraph for a prediction. Results are
// cached per crop and rounded yield so repeated submissions with similar
// conditions do not re-call the API.
func (g *Generator) Generate(ctx context.Context, p advisor.Prediction, a advisor.Advice, q market.Quote) (string, error) {
	key := cacheKey(p)
	if text, ok := g.cache.Get(key); ok {
		metrics.NarrativesGenerated.WithLabelValues("cache").Inc()
		return text, nil
	}

	prompt := buildPrompt(p, a, q)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion returned")
	}

	if err := g.cache.Set(key, text); err != nil {
		log.Printf("narrative: cache write failed: %v", err)
	}
	metrics.NarrativesGenerated.WithLabelValues("api").Inc()
	return text, nil
}

func cacheKey(p advisor.Prediction) string {
	return fmt.Sprintf("%s_%.1f", strings.ReplaceAll(p.Crop, " ", "_"), p.YieldTon)
}

func buildPrompt(p advisor.Prediction, a advisor.Advice, q market.Quote) string {
	var b strings.Builder
	b.WriteString("Write a short, friendly advisory paragraph (3-4 sentences) for a farmer. Plain text only.\n")
	fmt.Fprintf(&b, "Recommended crop: %s\n", p.Crop)
	fmt.Fprintf(&b, "Expected yield: %.2f tons\n", p.YieldTon)
	fmt.Fprintf(&b, "Sustainability score: %.1f\n", p.Sustainability)
	fmt.Fprintf(&b, "Estimated price per ton: %.2f\n", p.PriceEstimate)
	fmt.Fprintf(&b, "Market price per ton: %.2f (source: %s)\n", q.MarketPrice, q.Source)
	fmt.Fprintf(&b, "Irrigation advice: %s\n", a.Irrigation)
	fmt.Fprintf(&b, "Fertilizer tip: %s\n", a.FertilizerTip)
	return b.String()
}
