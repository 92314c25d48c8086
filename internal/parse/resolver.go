package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/align-app/align/internal/api"
	"github.com/align-app/align/internal/config"
)

const resolverSystemPrompt = "You are a reminder parsing assistant. You output ONLY a single JSON object, no prose, no code fences."

const resolverPromptTemplate = `Parse the following natural language text into a structured reminder.

Current date: %s
Current time: %s

User input: %q

Respond with a JSON object of this exact shape:
{
  "title": "Brief, clear title for the reminder",
  "description": "Optional detail beyond the title (null if none)",
  "date": "YYYY-MM-DD (null if not specified or unclear)",
  "time": "HH:MM in 24-hour format (null if not specified)",
  "isRelativeTime": boolean (true for offsets like "in 30 minutes"),
  "relativeMinutes": minutes from now when isRelativeTime is true (null otherwise),
  "repeat": "daily" if the reminder recurs every day, otherwise "none",
  "usedFallback": true only if the input carries no reminder intent
}

Rules:
1. Extract a concise, actionable title (max 50 characters)
2. Interpret "today", "tomorrow" literally; interpret "morning" as 09:00, "afternoon" as 14:00, "evening" as 18:00
3. Convert "in N hours" to relativeMinutes
4. If date or time is ambiguous or missing, use null
5. Return ONLY the JSON object

Response (JSON only):`

// resolverWire is the loose shape the model is asked to produce. Every field
// is optional because the output is untrusted.
type resolverWire struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	IsRelativeTime  bool   `json:"isRelativeTime"`
	RelativeMinutes int    `json:"relativeMinutes"`
	Repeat          string `json:"repeat"`
	UsedFallback    bool   `json:"usedFallback"`
}

// Resolver parses reminder text with a language model and degrades to the
// deterministic Fallback parser whenever the model call fails or produces
// unusable output. Resolve never returns an error: provenance is reported
// through the UsedFallback flag instead.
type Resolver struct {
	provider api.Provider
	model    config.ModelSettings
	log      *logrus.Logger
	now      func() time.Time
}

// NewResolver creates a resolver on top of the given provider.
func NewResolver(provider api.Provider, model config.ModelSettings, log *logrus.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		model:    model,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the resolver's clock. Intended for tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve parses text into schedule fields. One model call, no retries; any
// failure along the way silently yields the fallback result.
func (r *Resolver) Resolve(ctx context.Context, text string) Fields {
	now := r.now()

	if r.provider == nil {
		return Fallback(text, now)
	}

	prompt := fmt.Sprintf(resolverPromptTemplate,
		now.Format("2006-01-02"), now.Format("15:04"), text)

	resp, err := r.provider.Generate(ctx, api.GenerateRequest{
		Prompt:      prompt,
		System:      resolverSystemPrompt,
		Model:       r.model.Name,
		MaxTokens:   r.model.MaxTokens,
		Temperature: r.model.Temperature,
	})
	if err != nil {
		r.log.WithError(err).Warn("Reminder parse call failed, using fallback parser")
		return Fallback(text, now)
	}

	fields, err := decodeModelOutput(resp.Text, now)
	if err != nil {
		r.log.WithError(err).Warn("Unusable model output, using fallback parser")
		return Fallback(text, now)
	}

	return fields
}

// decodeModelOutput extracts the first {...} object from raw model text and
// normalizes it into Fields. An error means the output is unusable and the
// caller should fall back.
func decodeModelOutput(raw string, now time.Time) (Fields, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return Fields{}, fmt.Errorf("no JSON object in model output")
	}

	var wire resolverWire
	if err := json.Unmarshal([]byte(raw[start:end+1]), &wire); err != nil {
		return Fields{}, fmt.Errorf("failed to decode model output: %w", err)
	}

	// The model flags inputs with no reminder intent; treat that the same as
	// a failed parse so the caller's fallback prompt flow kicks in.
	if wire.UsedFallback {
		return Fields{}, fmt.Errorf("model reported unusable input")
	}

	fields := Fields{
		Title:           strings.TrimSpace(wire.Title),
		Description:     strings.TrimSpace(wire.Description),
		Date:            normalizeDateKeyword(wire.Date, now),
		Clock:           strings.TrimSpace(wire.Time),
		IsRelative:      wire.IsRelativeTime,
		RelativeMinutes: wire.RelativeMinutes,
		Repeat:          RepeatNone,
		UsedFallback:    false,
	}

	if strings.EqualFold(wire.Repeat, RepeatDaily) {
		fields.Repeat = RepeatDaily
	}
	if fields.Title == "" {
		fields.Title = "Reminder"
	}

	return fields, nil
}

// normalizeDateKeyword converts "today"/"tomorrow" returned by the model
// into concrete YYYY-MM-DD dates relative to now.
func normalizeDateKeyword(date string, now time.Time) string {
	switch strings.ToLower(strings.TrimSpace(date)) {
	case "today":
		return now.Format("2006-01-02")
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	case "null", "none":
		return ""
	default:
		return strings.TrimSpace(date)
	}
}
