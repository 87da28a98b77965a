package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"

	"go.uber.org/zap"
)

// apiError is a non-2xx vendor response. Retryability depends on the status.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("provider API returned status %d: %s", e.status, e.body)
}

var errMissingAPIKey = errors.New("provider API key is not configured")

// chatClient talks to an OpenAI-compatible chat-completions API. Both
// supported vendors expose the same shape, so the providers are thin names
// over this client.
type chatClient struct {
	name       string
	baseURL    string
	model      string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
	logger     *zap.Logger
}

func newChatClient(name, defaultBaseURL, defaultModel string, cfg *config.AIConfig, logger *zap.Logger) *chatClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &chatClient{
		name:      name,
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		apiKey:    cfg.APIKey,
		maxTokens: cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
			},
		},
		logger: logger,
	}
}

func (c *chatClient) Name() string  { return c.name }
func (c *chatClient) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *chatClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if c.apiKey == "" {
		return CompletionResponse{}, errMissingAPIKey
	}

	messages := make([]chatMessage, 0, len(req.History)+2)
	messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	for _, turn := range req.History {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Message})

	body, err := json.Marshal(map[string]interface{}{
		"model":       c.model,
		"messages":    messages,
		"max_tokens":  c.maxTokens,
		"temperature": 0.7,
	})
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return CompletionResponse{}, &apiError{status: resp.StatusCode, body: string(bodyBytes)}
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return CompletionResponse{}, fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return CompletionResponse{}, errors.New("no choices in completion response")
	}

	return CompletionResponse{
		Content:    strings.TrimSpace(completion.Choices[0].Message.Content),
		TokensUsed: completion.Usage.TotalTokens,
	}, nil
}

// SupportedModels lists the models the backend account can use.
func (c *chatClient) SupportedModels(ctx context.Context) ([]string, error) {
	if c.apiKey == "" {
		return nil, errMissingAPIKey
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("models request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &apiError{status: resp.StatusCode, body: string(bodyBytes)}
	}

	var modelsResp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}

	ids := make([]string, 0, len(modelsResp.Data))
	for _, m := range modelsResp.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// TestConnection is a lightweight capability probe. Any failure means false;
// nothing propagates.
func (c *chatClient) TestConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	modelIDs, err := c.SupportedModels(ctx)
	if err != nil {
		c.logger.Warn("Provider connection test failed",
			zap.String("provider", c.name),
			zap.Error(err),
		)
		return false
	}
	return len(modelIDs) > 0
}

// isTransient reports whether the error is worth retrying: network failures,
// timeouts, rate limiting, and server-side errors.
func isTransient(err error) bool {
	if isTimeout(err) {
		return true
	}
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.status == http.StatusTooManyRequests || apiErr.status >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ Provider = (*chatClient)(nil)
