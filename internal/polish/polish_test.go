package polish

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/paperforge/internal/llm"
	"github.com/ppiankov/paperforge/internal/model"
	"github.com/ppiankov/paperforge/internal/ratelimit"
)

var testContext = model.PaperContext{Country: "Kenya", Committee: "UNEP", Topic: "Plastic Pollution"}

func TestSanitize(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"preamble then quotes", `Sure! Here's a paragraph: "Hello world."`, "Hello world."},
		{"plain", "Kenya supports the treaty.", "Kenya supports the treaty."},
		{"wrapping quotes", `"Kenya supports the treaty."`, "Kenya supports the treaty."},
		{"curly quotes", "“Kenya supports the treaty.”", "Kenya supports the treaty."},
		{"here you go", "Here you go: Kenya acts.", "Kenya acts."},
		{"case insensitive", "CERTAINLY, here is the revised sentence: Kenya acts.", "Kenya acts."},
		{"quoted preamble", `"Sure, here's the formal version: 'Kenya acts.'"`, "Kenya acts."},
		{"surrounding whitespace", "  \n Kenya acts. \n", "Kenya acts."},
		{"inner quote kept", `Kenya calls it "urgent".`, `Kenya calls it "urgent".`},
		{"quoted words at both ends", `"Kenya" backs the "treaty"`, `"Kenya" backs the "treaty"`},
		{"curly quoted words at both ends", "“Kenya” backs the “treaty”", "“Kenya” backs the “treaty”"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}

func TestTransformType_Valid(t *testing.T) {
	for _, tt := range TransformTypes {
		assert.True(t, tt.Valid(), tt)
	}
	assert.False(t, TransformType("combine-ideas").Valid())
	assert.False(t, TransformType("").Valid())
}

func TestBuildPrompt(t *testing.T) {
	t.Run("embeds context and one-sentence directive", func(t *testing.T) {
		p := BuildPrompt(Request{
			Text:          "- plastic bags banned 2017",
			Context:       testContext,
			TransformType: BulletsToParagraph,
			TargetLayer:   model.LayerParagraphComponents,
		})
		assert.Contains(t, p, "Kenya")
		assert.Contains(t, p, "UNEP")
		assert.Contains(t, p, `"Plastic Pollution"`)
		assert.Contains(t, p, "- plastic bags banned 2017")
		assert.Contains(t, p, "exactly one sentence")
		assert.NotContains(t, p, "Background information")
	})

	t.Run("background block forbids invention", func(t *testing.T) {
		p := BuildPrompt(Request{
			Text:          "ban bags",
			Context:       testContext,
			TransformType: Formalize,
			TargetLayer:   model.LayerIdeaFormation,
			PriorContext: &model.PriorContext{
				KeyEvents:        "2017 national ban",
				BookmarkHeadings: []string{"Bag Ban", "Enforcement"},
			},
		})
		assert.Contains(t, p, "Background information:")
		assert.Contains(t, p, "- Key events: 2017 national ban")
		assert.Contains(t, p, "Bag Ban; Enforcement")
		assert.Contains(t, p, "Do not invent facts")
		assert.NotContains(t, p, "Why the topic matters")
		assert.Contains(t, p, "at most two short sentences")
	})
}

type stubProvider struct {
	text string
	err  error
	got  llm.CompletionRequest
}

func (s *stubProvider) Name() string                      { return "stub" }
func (s *stubProvider) IsAvailable(context.Context) bool { return true }
func (s *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Text: s.text}, nil
}

func TestEngine_Polish(t *testing.T) {
	req := Request{Text: "x", Context: testContext, TransformType: Formalize}

	t.Run("sanitizes output with fixed ceiling", func(t *testing.T) {
		p := &stubProvider{text: `Sure! Here's a paragraph: "Hello world."`}
		out, err := NewEngine(p).Polish(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Hello world.", out)
		assert.Equal(t, 256, p.got.MaxTokens)
		assert.InDelta(t, 0.4, p.got.Temperature, 0.001)
		assert.Equal(t, SystemPrompt, p.got.System)
	})

	t.Run("provider error", func(t *testing.T) {
		_, err := NewEngine(&stubProvider{err: errors.New("boom")}).Polish(context.Background(), req)
		assert.Error(t, err)
	})

	t.Run("empty after sanitizing", func(t *testing.T) {
		_, err := NewEngine(&stubProvider{text: `"Sure!"`}).Polish(context.Background(), req)
		assert.Error(t, err)
	})

	t.Run("no provider", func(t *testing.T) {
		_, err := NewEngine(nil).Polish(context.Background(), req)
		assert.ErrorIs(t, err, ErrNoProvider)
	})
}

func TestClient_PolishText(t *testing.T) {
	req := Request{Text: "ban bags", Context: testContext, TransformType: BulletsToParagraph}

	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var got Request
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, "ban bags", got.Text)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			_ = json.NewEncoder(w).Encode(Response{PolishedText: "Kenya bans plastic bags."})
		}))
		defer server.Close()

		res := NewClient(server.URL, time.Second).PolishText(context.Background(), req)
		assert.True(t, res.Success)
		assert.Equal(t, "Kenya bans plastic bags.", res.PolishedText)
		assert.Empty(t, res.Error)
	})

	t.Run("empty text short-circuits", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		defer server.Close()

		res := NewClient(server.URL, time.Second).PolishText(context.Background(), Request{Context: testContext})
		assert.True(t, res.Success)
		assert.Equal(t, "", res.PolishedText)
		assert.Zero(t, atomic.LoadInt32(&calls))
	})

	t.Run("whitespace text short-circuits", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		defer server.Close()

		res := NewClient(server.URL, time.Second).PolishText(context.Background(),
			Request{Text: "  \n\t ", Context: testContext, TransformType: Formalize})
		assert.True(t, res.Success)
		assert.Equal(t, "  \n\t ", res.PolishedText)
		assert.Empty(t, res.Error)
		assert.Zero(t, atomic.LoadInt32(&calls))
	})

	t.Run("invalid context keeps original", func(t *testing.T) {
		res := NewClient("http://127.0.0.1:1", time.Second).PolishText(context.Background(),
			Request{Text: "ban bags", Context: model.PaperContext{Country: "Kenya"}})
		assert.False(t, res.Success)
		assert.Equal(t, "ban bags", res.PolishedText)
		assert.Contains(t, res.Error, "context")
	})

	t.Run("network error keeps original", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		res := NewClient(url, time.Second).PolishText(context.Background(), req)
		assert.False(t, res.Success)
		assert.Equal(t, "ban bags", res.PolishedText)
		assert.NotEmpty(t, res.Error)
	})

	t.Run("server error keeps original", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(Response{Error: "AI processing failed"})
		}))
		defer server.Close()

		res := NewClient(server.URL, time.Second).PolishText(context.Background(), req)
		assert.False(t, res.Success)
		assert.Equal(t, "ban bags", res.PolishedText)
		assert.Contains(t, res.Error, "AI processing failed")
	})

	t.Run("malformed body keeps original", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}))
		defer server.Close()

		res := NewClient(server.URL, time.Second).PolishText(context.Background(), req)
		assert.False(t, res.Success)
		assert.Equal(t, "ban bags", res.PolishedText)
	})

	t.Run("blank polished text keeps original", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(Response{PolishedText: "   "})
		}))
		defer server.Close()

		res := NewClient(server.URL, time.Second).PolishText(context.Background(), req)
		assert.False(t, res.Success)
		assert.Equal(t, "ban bags", res.PolishedText)
	})

	t.Run("cancelled pacer wait keeps original", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(Response{PolishedText: "ok"})
		}))
		defer server.Close()

		pacer := ratelimit.NewPacer(1, 1)
		client := NewClient(server.URL, time.Second, WithPacer(pacer))
		require.True(t, client.PolishText(context.Background(), req).Success)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res := client.PolishText(ctx, req)
		assert.False(t, res.Success)
		assert.True(t, strings.HasPrefix(res.Error, "wait for rate limit"))
		assert.Equal(t, "ban bags", res.PolishedText)
	})
}

func TestProxyFunc(t *testing.T) {
	httpsReq, _ := http.NewRequest(http.MethodPost, "https://polish.example.org/api/polish-text", nil)
	httpReq, _ := http.NewRequest(http.MethodPost, "http://polish.example.org/api/polish-text", nil)

	fn := proxyFunc("http://proxy:3128", "http://secure-proxy:3128")
	u, err := fn(httpsReq)
	require.NoError(t, err)
	assert.Equal(t, "secure-proxy:3128", u.Host)

	u, err = fn(httpReq)
	require.NoError(t, err)
	assert.Equal(t, "proxy:3128", u.Host)

	u, err = proxyFunc("http://proxy:3128", "")(httpsReq)
	require.NoError(t, err)
	assert.Equal(t, "proxy:3128", u.Host)

	client := NewClient("http://localhost", time.Second, WithProxy("http://proxy:3128", ""))
	transport, ok := client.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.Proxy)
}
