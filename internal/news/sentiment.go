package news

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"StockTracker/internal/model"
)

// Scorer rates text from -1 (negative) to 1 (positive).
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
	Name() string
}

// Label buckets a score; |score| < 0.05 is neutral.
func Label(score float64) string {
	switch {
	case score >= 0.05:
		return model.SentimentPositive
	case score <= -0.05:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

var positiveWords = wordSet(`
	beat beats beating surge surges surged soar soars soared rally rallies rallied gain gains gained
	jump jumps jumped rise rises rising rose climb climbs climbed record strong stronger growth grow
	grows upgrade upgraded upgrades outperform outperforms bullish profit profits profitable boost
	boosts boosted win wins won exceed exceeds exceeded optimistic optimism recover recovery rebound
	rebounds buy positive higher top tops expand expands expansion dividend breakthrough approve
	approved approval success successful`)

var negativeWords = wordSet(`
	miss misses missed fall falls fell drop drops dropped plunge plunges plunged slump slumps slumped
	decline declines declined loss losses lose loses weak weaker downgrade downgraded downgrades
	underperform bearish cut cuts cutting layoff layoffs lawsuit sue sued fraud inquiry investigation
	warn warns warning recall recalls crash crashes crashed sell selloff negative lower risk risks
	concern concerns fear fears bankrupt bankruptcy default slowdown tumble tumbles tumbled sink
	sinks sank halt halted fine fined penalty`)

func wordSet(s string) map[string]bool {
	m := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		m[w] = true
	}
	return m
}

var reWord = regexp.MustCompile(`[a-z]+`)

// LexiconScorer counts finance-tuned positive and negative words.
type LexiconScorer struct{}

func (LexiconScorer) Name() string { return "lexicon" }

// Score is (pos-neg)/(pos+neg), or 0 when no word matches.
func (LexiconScorer) Score(_ context.Context, text string) (float64, error) {
	return lexiconScore(text), nil
}

func lexiconScore(text string) float64 {
	var pos, neg int
	for _, w := range reWord.FindAllString(strings.ToLower(text), -1) {
		switch {
		case positiveWords[w]:
			pos++
		case negativeWords[w]:
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

const sentimentPrompt = "You rate the sentiment of financial news for the stock mentioned. " +
	"Reply with a single number between -1 (very negative) and 1 (very positive), nothing else."

// OpenAIScorer asks a chat model for a score. Replies that are not a number
// fall back to the lexicon score.
type OpenAIScorer struct {
	client openai.Client
	model  string
}

// NewOpenAIScorer creates a scorer; an empty key yields ErrMissingAPIKey.
func NewOpenAIScorer(apiKey, modelID, baseURL string, httpClient *http.Client) (*OpenAIScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}
	if modelID == "" {
		modelID = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAIScorer{client: openai.NewClient(opts...), model: modelID}, nil
}

func (s *OpenAIScorer) Name() string { return "openai" }

func (s *OpenAIScorer) Score(ctx context.Context, text string) (float64, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(sentimentPrompt),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return 0, fmt.Errorf("openai sentiment: %w", err)
	}
	if len(resp.Choices) == 0 {
		return lexiconScore(text), nil
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	v, err := strconv.ParseFloat(strings.Trim(reply, " .\n\"'"), 64)
	if err != nil || math.IsNaN(v) {
		log.Printf("[WARN] openai sentiment reply %q not a number, using lexicon", reply)
		return lexiconScore(text), nil
	}
	return math.Max(-1, math.Min(1, v)), nil
}
