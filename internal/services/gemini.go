package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"studyhub-backend/internal/models"
)

const defaultRetryAfterSeconds = 30

type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a concurrency slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateParts submits an ordered list of text/binary parts and returns the
// concatenated text of the response. A provider rate limit surfaces as a
// *RateLimitError carrying the retry-after hint; it is never retried here.
func (s *GeminiService) GenerateParts(ctx context.Context, parts []genai.Part) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	resp, err := s.model.GenerateContent(ctx, parts...)
	if err != nil {
		if rlErr := asRateLimit(err); rlErr != nil {
			return "", rlErr
		}
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return extractText(resp), nil
}

// GenerateJSON is GenerateParts with markdown fence stripping applied, for
// prompts that mandate a raw JSON response.
func (s *GeminiService) GenerateJSON(ctx context.Context, parts []genai.Part) (string, error) {
	raw, err := s.GenerateParts(ctx, parts)
	if err != nil {
		return "", err
	}
	return StripJSONFences(raw), nil
}

// ParseExpense structures free-form spending text into an expense draft.
func (s *GeminiService) ParseExpense(ctx context.Context, text string, today time.Time) (*models.ParsedExpense, error) {
	prompt := fmt.Sprintf(`You are a budgeting assistant for students. Parse the expense description below into a single JSON object.

CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.

Schema: {"amount": number, "category": "food"|"transport"|"books"|"rent"|"entertainment"|"other", "description": "string", "spent_at": "YYYY-MM-DD"}

Today's date is %s. Resolve relative dates ("yesterday", "last friday") against it. If no date is mentioned, use today.

Expense description:
%s`, today.Format("2006-01-02"), text)

	raw, err := s.GenerateJSON(ctx, []genai.Part{genai.Text(prompt)})
	if err != nil {
		return nil, err
	}

	var parsed models.ParsedExpense
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		// Try to extract a JSON object
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("expense parse returned no JSON object")
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse expense JSON: %w", err)
		}
	}

	if parsed.Amount <= 0 {
		return nil, fmt.Errorf("expense parse produced no amount")
	}
	if parsed.Category == "" {
		parsed.Category = "other"
	}
	return &parsed, nil
}

// GenerateCitation formats source metadata into a single citation string in
// the requested style.
func (s *GeminiService) GenerateCitation(ctx context.Context, req models.GenerateCitationRequest) (string, error) {
	var b strings.Builder
	b.WriteString("You are an academic citation formatter. Produce exactly one citation line in ")
	b.WriteString(strings.ToUpper(req.Style))
	b.WriteString(" style for the source below. Return ONLY the citation text, no commentary, no markdown.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", req.Title)
	fmt.Fprintf(&b, "Authors: %s\n", req.Authors)
	if req.Year != "" {
		fmt.Fprintf(&b, "Year: %s\n", req.Year)
	}
	if req.Publisher != "" {
		fmt.Fprintf(&b, "Publisher: %s\n", req.Publisher)
	}
	if req.SourceURL != nil && *req.SourceURL != "" {
		fmt.Fprintf(&b, "URL: %s\n", *req.SourceURL)
	}

	raw, err := s.GenerateParts(ctx, []genai.Part{genai.Text(b.String())})
	if err != nil {
		return "", err
	}

	citation := strings.TrimSpace(raw)
	if citation == "" {
		return "", fmt.Errorf("citation generation returned empty text")
	}
	return citation, nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// StripJSONFences removes a surrounding markdown code fence, which the model
// sometimes adds despite instructions.
func StripJSONFences(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

var retryAfterPattern = regexp.MustCompile(`(?i)retry(?:\s+in|-after:?)\s*(\d+)`)

// asRateLimit maps a provider quota error to *RateLimitError, or returns nil
// if the error is anything else.
func asRateLimit(err error) *RateLimitError {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 429 {
		return &RateLimitError{
			Message:           "Generative API quota exceeded",
			RetryAfterSeconds: retryAfterFrom(gerr.Header.Get("Retry-After"), gerr.Error()),
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "429") {
		return &RateLimitError{
			Message:           "Generative API quota exceeded",
			RetryAfterSeconds: retryAfterFrom("", msg),
		}
	}
	return nil
}

func retryAfterFrom(header, message string) int {
	if header != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && n > 0 {
			return n
		}
	}
	if m := retryAfterPattern.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return defaultRetryAfterSeconds
}
