package grammar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// PublicAPIBaseURL is the rate-limited public LanguageTool endpoint. Point a
// LanguageTool checker at a self-hosted instance to avoid its limits.
const PublicAPIBaseURL = "https://api.languagetool.org"

const defaultTimeout = 10 * time.Second

// Doer is the part of *http.Client the checker needs. Tests inject fakes
// through it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// LanguageTool is a Checker backed by a LanguageTool-compatible HTTP API.
type LanguageTool struct {
	baseURL string
	lang    string
	timeout time.Duration
	client  Doer
}

// LanguageToolOption configures a LanguageTool checker
type LanguageToolOption func(*LanguageTool)

// WithTimeout sets the per-check timeout
func WithTimeout(d time.Duration) LanguageToolOption {
	return func(lt *LanguageTool) { lt.timeout = d }
}

// WithHTTPClient sets the HTTP client used for check requests
func WithHTTPClient(c Doer) LanguageToolOption {
	return func(lt *LanguageTool) { lt.client = c }
}

// NewLanguageTool creates a checker against the given base URL (without the
// /v2/check suffix) and locale, e.g. "en-US".
func NewLanguageTool(baseURL, lang string, opts ...LanguageToolOption) (*LanguageTool, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if lang == "" {
		return nil, errors.New("language is required")
	}
	lt := &LanguageTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
		timeout: defaultTimeout,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(lt)
	}
	return lt, nil
}

// Name returns the backend name
func (lt *LanguageTool) Name() string { return "languagetool" }

// ltResponse mirrors the wire shape of a LanguageTool /v2/check response,
// reduced to the fields the pipeline consumes.
type ltResponse struct {
	Matches []ltMatch `json:"matches"`
}

type ltMatch struct {
	Offset       int    `json:"offset"`
	Length       int    `json:"length"`
	Message      string `json:"message"`
	Replacements []struct {
		Value string `json:"value"`
	} `json:"replacements"`
	Rule struct {
		ID string `json:"id"`
	} `json:"rule"`
}

// Check posts the text to the backend and normalizes the response. Network
// failures, rate limiting, and malformed responses all degrade to an empty
// result; a single attempt is made per call.
func (lt *LanguageTool) Check(ctx context.Context, text string) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	ctx, cancel := context.WithTimeout(ctx, lt.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("text", text)
	form.Set("language", lt.lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		lt.baseURL+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Errorf("building check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := lt.client.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("grammar backend unreachable")
		return degraded("grammar check unavailable: backend unreachable"), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		logger.Warn().Msg("grammar backend rate limit exceeded")
		return degraded("grammar check unavailable: rate limit exceeded"), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn().Int("status", resp.StatusCode).Msg("grammar backend returned an error status")
		return degraded(fmt.Sprintf("grammar check unavailable: backend returned HTTP %d", resp.StatusCode)), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn().Err(err).Msg("reading grammar backend response")
		return degraded("grammar check unavailable: backend response unreadable"), nil
	}

	var parsed ltResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		logger.Warn().Err(err).Msg("malformed grammar backend response")
		return degraded("grammar check unavailable: malformed backend response"), nil
	}

	result := &Result{}
	for _, m := range parsed.Matches {
		if len(m.Replacements) == 0 {
			continue
		}
		start, end, ok := runeSpanToBytes(text, m.Offset, m.Length)
		if !ok {
			logger.Warn().
				Int("offset", m.Offset).
				Int("length", m.Length).
				Str("rule", m.Rule.ID).
				Msg("dropping grammar match with out-of-range offsets")
			continue
		}
		original := text[start:end]
		proposed := m.Replacements[0].Value
		// The backend sometimes proposes the flagged text back (whitespace
		// variants); those are noise, not edits.
		if strings.TrimSpace(original) == strings.TrimSpace(proposed) || strings.TrimSpace(original) == "" {
			continue
		}
		result.Findings = append(result.Findings, Finding{
			Start:    start,
			End:      end,
			Original: original,
			Proposed: proposed,
			Message:  m.Message,
			RuleCode: m.Rule.ID,
		})
	}

	logger.Debug().Int("findings", len(result.Findings)).Msg("grammar check complete")
	return result, nil
}

func degraded(warning string) *Result {
	return &Result{Degraded: true, Warning: warning}
}

// runeSpanToBytes converts the backend's character-based offset/length pair
// into byte offsets into text.
func runeSpanToBytes(text string, offset, length int) (int, int, bool) {
	if offset < 0 || length < 0 {
		return 0, 0, false
	}
	start, end := -1, -1
	count := 0
	for i := range text {
		if count == offset {
			start = i
		}
		if count == offset+length {
			end = i
			break
		}
		count++
	}
	if start == -1 {
		if count == offset {
			start = len(text)
		} else {
			return 0, 0, false
		}
	}
	if end == -1 {
		if count == offset+length {
			end = len(text)
		} else {
			return 0, 0, false
		}
	}
	return start, end, true
}
