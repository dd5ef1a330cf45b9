package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// CloudflareProvider implements the Provider interface for Cloudflare Workers AI
type CloudflareProvider struct {
	apiToken   string
	accountID  string
	baseURL    string
	httpClient *http.Client
	config     Config
}

const defaultCloudflareModel = "@cf/meta/llama-3-8b-instruct"

type cloudflareRequest struct {
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Temperature float32            `json:"temperature,omitempty"`
}

type cloudflareResponse struct {
	Result struct {
		Response string `json:"response"`
		Usage    struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	} `json:"result"`
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// NewCloudflareProvider creates a new Workers AI provider
func NewCloudflareProvider(config Config) (*CloudflareProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Cloudflare API token is required")
	}
	if config.AccountID == "" {
		return nil, fmt.Errorf("Cloudflare account ID is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.cloudflare.com"
	}

	return &CloudflareProvider{
		apiToken:   config.APIKey,
		accountID:  config.AccountID,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: newHTTPClient(config, 30*time.Second),
		config:     config,
	}, nil
}

// Name returns the provider name
func (p *CloudflareProvider) Name() string {
	return "cloudflare"
}

// IsAvailable verifies the API token
func (p *CloudflareProvider) IsAvailable(ctx context.Context) bool {
	url := fmt.Sprintf("%s/client/v4/user/tokens/verify", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cloudflare token check failed (request creation): %v\n", err)
		return false
	}
	req.Header.Set("Authorization", "Bearer "+p.apiToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cloudflare token check failed: %v\n", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Cloudflare token check failed (HTTP %d)\n", resp.StatusCode)
		return false
	}
	return true
}

// Complete runs the prompt on a Workers AI text-generation model
func (p *CloudflareProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := p.config.model(req.Model, defaultCloudflareModel)

	var messages []anthropicMessage
	if req.System != "" {
		messages = append(messages, anthropicMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, anthropicMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(cloudflareRequest{
		Messages:    messages,
		MaxTokens:   p.config.maxTokens(req.MaxTokens),
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/client/v4/accounts/%s/ai/run/%s", p.baseURL, p.accountID, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiToken)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Workers AI error: execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp cloudflareResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("Workers AI error (%d): %s", httpResp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK || !resp.Success {
		msg := http.StatusText(httpResp.StatusCode)
		if len(resp.Errors) > 0 {
			msg = resp.Errors[0].Message
		}
		return nil, fmt.Errorf("Workers AI error (%d): %s", httpResp.StatusCode, msg)
	}

	text := strings.TrimSpace(resp.Result.Response)
	tokensUsed := resp.Result.Usage.TotalTokens
	if tokensUsed == 0 {
		tokensUsed = (len(req.Prompt) + len(text)) / 4
	}

	return &CompletionResponse{
		Text:       text,
		Model:      model,
		TokensUsed: tokensUsed,
	}, nil
}
