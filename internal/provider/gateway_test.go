package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"
)

type fakeProvider struct {
	responses []CompletionResponse
	errs      []error
	calls     int
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }

func (f *fakeProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return CompletionResponse{}, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return CompletionResponse{Content: "ok"}, nil
}

func (f *fakeProvider) TestConnection(ctx context.Context) bool { return false }

func (f *fakeProvider) SupportedModels(ctx context.Context) ([]string, error) {
	return nil, errors.New("not implemented")
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func newTestGateway(p Provider, cfg *config.AIConfig) (*Gateway, *[]time.Duration) {
	var slept []time.Duration
	g := &Gateway{
		provider: p,
		cfg:      cfg,
		logger:   zap.NewNop(),
		sleep:    func(d time.Duration) { slept = append(slept, d) },
	}
	return g, &slept
}

func testAIConfig() *config.AIConfig {
	return &config.AIConfig{
		Provider:       ProviderOpenAI,
		MaxRetries:     3,
		RetryBaseDelay: time.Second,
	}
}

func TestGatewayRetriesTransientErrors(t *testing.T) {
	p := &fakeProvider{
		errs:      []error{&apiError{status: http.StatusTooManyRequests}, &apiError{status: 503}, nil},
		responses: []CompletionResponse{{}, {}, {Content: "answer", TokensUsed: 42}},
	}
	g, slept := newTestGateway(p, testAIConfig())

	result, err := g.Complete(context.Background(), "question", nil, nil)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.Content != "answer" {
		t.Errorf("Expected the third attempt's answer, got %q", result.Content)
	}
	if p.calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", p.calls)
	}
	if len(*slept) != 2 || (*slept)[0] != time.Second || (*slept)[1] != 2*time.Second {
		t.Errorf("Expected exponential backoff of 1s then 2s, got %v", *slept)
	}
}

func TestGatewayDoesNotRetryPermanentErrors(t *testing.T) {
	p := &fakeProvider{errs: []error{&apiError{status: http.StatusUnauthorized}}}
	g, slept := newTestGateway(p, testAIConfig())

	_, err := g.Complete(context.Background(), "question", nil, nil)
	if err == nil {
		t.Fatal("Expected the permanent error to propagate")
	}
	if p.calls != 1 {
		t.Errorf("Expected a single attempt, got %d", p.calls)
	}
	if len(*slept) != 0 {
		t.Errorf("Expected no backoff for a permanent error, got %v", *slept)
	}
}

func TestGatewayTimeoutDegradesInEnglish(t *testing.T) {
	p := &fakeProvider{errs: []error{timeoutError{}, timeoutError{}, timeoutError{}}}
	g, _ := newTestGateway(p, testAIConfig())

	result, err := g.Complete(context.Background(), "how do I update the firmware", nil, nil)
	if err != nil {
		t.Fatalf("Timeout exhaustion must not surface an error, got %v", err)
	}
	if !result.Degraded {
		t.Error("Expected a degraded result")
	}
	if result.Content != degradedReplyEN {
		t.Errorf("Expected the English degradation message, got %q", result.Content)
	}
	if p.calls != 3 {
		t.Errorf("Expected all attempts exhausted, got %d", p.calls)
	}
}

func TestGatewayTimeoutDegradesInChinese(t *testing.T) {
	p := &fakeProvider{errs: []error{timeoutError{}, timeoutError{}, timeoutError{}}}
	g, _ := newTestGateway(p, testAIConfig())

	result, err := g.Complete(context.Background(), "怎么升级固件", nil, nil)
	if err != nil {
		t.Fatalf("Timeout exhaustion must not surface an error, got %v", err)
	}
	if result.Content != degradedReplyCJK {
		t.Errorf("Expected the Chinese degradation message, got %q", result.Content)
	}
}

func TestGatewayBuildsReferences(t *testing.T) {
	p := &fakeProvider{responses: []CompletionResponse{{Content: "answer"}}}
	g, _ := newTestGateway(p, testAIConfig())

	results := []models.SearchResult{
		{Title: "forum topic", URL: "https://forum.example.com/d/1", Source: models.SourceForum, Relevance: 1},
		{Title: "kb entry", Source: models.SourceKnowledgeBase, Relevance: 0.8},
	}
	result, err := g.Complete(context.Background(), "question", nil, results)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if len(result.References) != 2 {
		t.Fatalf("Expected a reference per result, got %d", len(result.References))
	}
	if result.References[1].URL != "" {
		t.Errorf("Knowledge base references may have no URL, got %q", result.References[1].URL)
	}
}

func TestSelectProviderFallsBackWithoutDeepSeekKey(t *testing.T) {
	cfg := &config.AIConfig{Provider: ProviderDeepSeek}
	p := selectProvider(cfg, zap.NewNop())
	if p.Name() != ProviderOpenAI {
		t.Errorf("Expected fallback to openai without an API key, got %q", p.Name())
	}
}

func TestSelectProviderDeepSeekWithKey(t *testing.T) {
	cfg := &config.AIConfig{Provider: ProviderDeepSeek, APIKey: "k"}
	p := selectProvider(cfg, zap.NewNop())
	if p.Name() != ProviderDeepSeek {
		t.Errorf("Expected deepseek, got %q", p.Name())
	}
	if p.Model() != "deepseek-chat" {
		t.Errorf("Expected the deepseek default model, got %q", p.Model())
	}
}

func TestSelectProviderUnknownName(t *testing.T) {
	cfg := &config.AIConfig{Provider: "anthropic"}
	p := selectProvider(cfg, zap.NewNop())
	if p.Name() != ProviderOpenAI {
		t.Errorf("Expected fallback to openai for unknown names, got %q", p.Name())
	}
}

func TestGatewayTestConnectionDelegates(t *testing.T) {
	g, _ := newTestGateway(&fakeProvider{}, testAIConfig())
	if g.TestConnection(context.Background()) {
		t.Error("Expected the fake provider's failed probe to propagate")
	}
}
