package grammar_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/flarecheck/pkg/grammar"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func newChecker(t *testing.T, backendURL string, opts ...grammar.LanguageToolOption) *grammar.LanguageTool {
	t.Helper()
	lt, err := grammar.NewLanguageTool(backendURL, "en-US", opts...)
	require.NoError(t, err)
	return lt
}

func TestNewLanguageToolValidation(t *testing.T) {
	_, err := grammar.NewLanguageTool("", "en-US")
	require.Error(t, err)

	_, err = grammar.NewLanguageTool("http://localhost:8010", "")
	require.Error(t, err)
}

func TestCheckNormalizesFindings(t *testing.T) {
	// "Ive gone home." — the backend flags "Ive" at offset 0 length 3.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/check", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Ive gone home.", r.PostForm.Get("text"))
		assert.Equal(t, "en-US", r.PostForm.Get("language"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"matches": [
				{
					"offset": 0,
					"length": 3,
					"message": "Possible typo: apostrophe is missing.",
					"replacements": [{"value": "I've"}, {"value": "Ive"}],
					"rule": {"id": "MISSING_APOSTROPHE"}
				},
				{
					"offset": 4,
					"length": 4,
					"message": "No replacements offered.",
					"replacements": [],
					"rule": {"id": "NO_REPL"}
				},
				{
					"offset": 9,
					"length": 4,
					"message": "Whitespace-only difference.",
					"replacements": [{"value": " home "}],
					"rule": {"id": "NOISE"}
				}
			]
		}`))
	}))
	defer srv.Close()

	lt := newChecker(t, srv.URL)
	res, err := lt.Check(testContext(t), "Ive gone home.")
	require.NoError(t, err)

	assert.False(t, res.Degraded)
	require.Len(t, res.Findings, 1, "matches without usable replacements must be dropped")

	f := res.Findings[0]
	assert.Equal(t, 0, f.Start)
	assert.Equal(t, 3, f.End)
	assert.Equal(t, "Ive", f.Original)
	assert.Equal(t, "I've", f.Proposed)
	assert.Equal(t, "MISSING_APOSTROPHE", f.RuleCode)
	assert.Equal(t, "Possible typo: apostrophe is missing.", f.Message)
}

func TestCheckMultibyteOffsets(t *testing.T) {
	// The backend counts characters, not bytes. "café teh" flags "teh" at
	// character offset 5, which is byte offset 6.
	text := "café teh"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"matches": [
				{
					"offset": 5,
					"length": 3,
					"message": "Possible typo.",
					"replacements": [{"value": "the"}],
					"rule": {"id": "TYPO"}
				}
			]
		}`))
	}))
	defer srv.Close()

	lt := newChecker(t, srv.URL)
	res, err := lt.Check(testContext(t), text)
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)

	f := res.Findings[0]
	assert.Equal(t, "teh", text[f.Start:f.End])
	assert.Equal(t, "the", f.Proposed)
}

func TestCheckDegradedModes(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantWarning string
	}{
		{
			name: "rate_limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantWarning: "rate limit exceeded",
		},
		{
			name: "server_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantWarning: "HTTP 500",
		},
		{
			name: "malformed_response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"matches": [`))
			},
			wantWarning: "malformed backend response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			lt := newChecker(t, srv.URL)
			res, err := lt.Check(testContext(t), "some text")
			require.NoError(t, err, "transport failures must never surface as errors")

			assert.True(t, res.Degraded)
			assert.Empty(t, res.Findings)
			assert.Contains(t, res.Warning, tt.wantWarning)
		})
	}
}

func TestCheckTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	lt := newChecker(t, srv.URL, grammar.WithTimeout(50*time.Millisecond))
	res, err := lt.Check(testContext(t), "some text")
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	assert.Empty(t, res.Findings)
}

func TestCheckUnreachableBackend(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	lt := newChecker(t, srv.URL)
	res, err := lt.Check(testContext(t), "some text")
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	assert.Contains(t, res.Warning, "unreachable")
}

func TestDisabledChecker(t *testing.T) {
	res, err := grammar.Disabled{}.Check(testContext(t), "anything at all")
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
	assert.False(t, res.Degraded)
}
