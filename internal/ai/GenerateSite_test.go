package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nazcraft_server/internal/ai/prompts"
	"nazcraft_server/internal/catalog"
	"nazcraft_server/internal/credential"
	"nazcraft_server/internal/logger"
	"nazcraft_server/internal/metrics"
)

// ==========================
// Mock Completer
// ==========================

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func completion(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

// newTestGenerator wires a generator to the mock and records every key the
// client factory was asked for.
func newTestGenerator(t *testing.T, creds credential.Provider, completer Completer) (*Generator, *[]string) {
	t.Helper()
	keys := []string{}
	g := NewGenerator(Options{
		Credentials: creds,
		NewClient: func(apiKey string) Completer {
			keys = append(keys, apiKey)
			return completer
		},
		Logger: logger.NewTestLogger(t),
	})
	return g, &keys
}

// ==========================
// Success Path
// ==========================

func TestGenerateSite_CryptoScenario(t *testing.T) {
	completer := new(MockCompleter)
	userPrompt := "A dark-themed exchange site"

	completer.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return len(req.Messages) == 1 &&
			req.Messages[0].Role == openai.ChatMessageRoleUser &&
			req.Messages[0].Content == prompts.GetSiteGenerationPrompt(catalog.Crypto, userPrompt)
	})).Return(completion("```html\n<!DOCTYPE html><html></html>\n```"), nil).Once()

	g, keys := newTestGenerator(t, credential.Static("test-key"), completer)

	html, err := g.GenerateSite(context.Background(), SiteRequest{Template: catalog.Crypto, Prompt: userPrompt})

	require.NoError(t, err)
	assert.Equal(t, "<!DOCTYPE html><html></html>", html)
	assert.Equal(t, []string{"test-key"}, *keys)
	completer.AssertExpectations(t)
}

func TestGenerateSite_RequestShape(t *testing.T) {
	completer := new(MockCompleter)
	var captured openai.ChatCompletionRequest
	completer.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(openai.ChatCompletionRequest)
		}).
		Return(completion("<!DOCTYPE html><html><body>ok</body></html>"), nil).Once()

	g, _ := newTestGenerator(t, credential.Static("k"), completer)
	_, err := g.GenerateSite(context.Background(), SiteRequest{Template: catalog.Business, Prompt: "Bakery in London"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, captured.Model)
	assert.InDelta(t, 0.7, captured.Temperature, 0.0001)
	assert.False(t, captured.Stream)
	require.Len(t, captured.Messages, 1)
	assert.Contains(t, captured.Messages[0].Content, catalog.Instruction(catalog.Business))
	assert.Contains(t, captured.Messages[0].Content, `"Bakery in London"`)
}

func TestGenerateSite_ReturnsUnwrappedReplyAsIs(t *testing.T) {
	// No doctype in the reply: the pipeline does not validate HTML.
	completer := new(MockCompleter)
	completer.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(completion("  <div>not a full document</div>\n"), nil).Once()

	g, _ := newTestGenerator(t, credential.Static("k"), completer)
	html, err := g.GenerateSite(context.Background(), SiteRequest{Template: catalog.Chat, Prompt: "chess club chat"})

	require.NoError(t, err)
	assert.Equal(t, "<div>not a full document</div>", html)
}

func TestGenerateSite_CountsSuccessMetric(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(completion("<!DOCTYPE html>"), nil).Once()

	counter := metrics.Generations.WithLabelValues("minimalist", metrics.OutcomeSuccess)
	before := testutil.ToFloat64(counter)

	g, _ := newTestGenerator(t, credential.Static("k"), completer)
	_, err := g.GenerateSite(context.Background(), SiteRequest{Template: catalog.Minimalist, Prompt: "my resume"})
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestGenerateSite_UnknownTemplatesShareOneMetricLabel(t *testing.T) {
	completer := new(MockCompleter)
	g, _ := newTestGenerator(t, credential.Static("k"), completer)

	_, err := g.GenerateSite(context.Background(), SiteRequest{Template: "junk-first", Prompt: "x"})
	require.ErrorIs(t, err, ErrUnknownTemplate)

	series := testutil.CollectAndCount(metrics.Generations)
	counter := metrics.Generations.WithLabelValues(metrics.UnknownTemplate, "invalid_input")
	before := testutil.ToFloat64(counter)

	for i := 0; i < 20; i++ {
		_, err := g.GenerateSite(context.Background(), SiteRequest{Template: catalog.Template(fmt.Sprintf("junk-%d", i)), Prompt: "x"})
		require.ErrorIs(t, err, ErrUnknownTemplate)
	}

	assert.Equal(t, series, testutil.CollectAndCount(metrics.Generations))
	assert.Equal(t, before+20, testutil.ToFloat64(counter))
	completer.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
}

func TestGenerateSite_InFlightGaugeSurvivesPanic(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("transport blew up") }).
		Return(openai.ChatCompletionResponse{}, nil).Once()

	before := testutil.ToFloat64(metrics.GenerationsInFlight)
	g, _ := newTestGenerator(t, credential.Static("k"), completer)

	assert.Panics(t, func() {
		_, _ = g.GenerateSite(context.Background(), SiteRequest{Template: catalog.Business, Prompt: "x"})
	})
	assert.Equal(t, before, testutil.ToFloat64(metrics.GenerationsInFlight))
}

// ==========================
// Refusals Before The Call
// ==========================

func TestGenerateSite_MissingCredential(t *testing.T) {
	tests := []struct {
		name  string
		creds credential.Provider
		req   SiteRequest
	}{
		{name: "empty static", creds: credential.Static(""), req: SiteRequest{Template: catalog.Crypto, Prompt: "x"}},
		{name: "nil provider", creds: nil, req: SiteRequest{Template: catalog.Business, Prompt: "y"}},
		{name: "empty chain", creds: credential.Chain{credential.Static("  ")}, req: SiteRequest{Template: catalog.Chat, Prompt: "z"}},
		{name: "wins over bad input", creds: credential.Static(""), req: SiteRequest{Template: "nope", Prompt: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(MockCompleter)
			g, keys := newTestGenerator(t, tt.creds, completer)

			html, err := g.GenerateSite(context.Background(), tt.req)

			require.Error(t, err)
			assert.Empty(t, html)
			assert.Equal(t, KindMissingCredential, KindOf(err))
			assert.Contains(t, err.Error(), "API key not found")
			assert.Empty(t, *keys)
			completer.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerateSite_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		req     SiteRequest
		wantErr error
	}{
		{name: "empty prompt", req: SiteRequest{Template: catalog.Crypto, Prompt: ""}, wantErr: ErrEmptyPrompt},
		{name: "whitespace prompt", req: SiteRequest{Template: catalog.Crypto, Prompt: " \n\t "}, wantErr: ErrEmptyPrompt},
		{name: "no template", req: SiteRequest{Prompt: "a site"}, wantErr: ErrUnknownTemplate},
		{name: "unknown template", req: SiteRequest{Template: "blog", Prompt: "a site"}, wantErr: ErrUnknownTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(MockCompleter)
			g, keys := newTestGenerator(t, credential.Static("k"), completer)

			_, err := g.GenerateSite(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, Kind(""), KindOf(err))
			assert.Empty(t, *keys)
			completer.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
		})
	}
}

// ==========================
// Service Failures
// ==========================

func TestGenerateSite_ClassifiesServiceErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    Kind
		wantMessage string
	}{
		{
			name:        "api key not valid message",
			err:         errors.New("API key not valid. Please pass a valid API key."),
			wantKind:    KindInvalidCredential,
			wantMessage: "re-enter",
		},
		{
			name:        "entity not found",
			err:         errors.New("Requested entity was not found."),
			wantKind:    KindResourceNotFound,
			wantMessage: "model was not found",
		},
		{
			name:        "unauthorized status",
			err:         &openai.APIError{HTTPStatusCode: 401, Message: "Incorrect API key provided"},
			wantKind:    KindInvalidCredential,
			wantMessage: "re-enter",
		},
		{
			name:        "network failure",
			err:         errors.New("dial tcp: connection refused"),
			wantKind:    KindUnclassified,
			wantMessage: "dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(MockCompleter)
			completer.On("CreateChatCompletion", mock.Anything, mock.Anything).
				Return(openai.ChatCompletionResponse{}, tt.err).Once()

			g, _ := newTestGenerator(t, credential.Static("k"), completer)
			_, err := g.GenerateSite(context.Background(), SiteRequest{Template: catalog.Ecommerce, Prompt: "a shoe store"})

			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.wantKind, genErr.Kind)
			assert.Contains(t, genErr.Message, tt.wantMessage)
			assert.ErrorIs(t, err, tt.err)
			completer.AssertNumberOfCalls(t, "CreateChatCompletion", 1)
		})
	}
}

func TestGenerateSite_EmptyReply(t *testing.T) {
	for name, resp := range map[string]openai.ChatCompletionResponse{
		"no choices":    {},
		"blank content": completion("   \n"),
		"only fences":   completion("```html\n```"),
	} {
		t.Run(name, func(t *testing.T) {
			completer := new(MockCompleter)
			completer.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(resp, nil).Once()

			g, _ := newTestGenerator(t, credential.Static("k"), completer)
			_, err := g.GenerateSite(context.Background(), SiteRequest{Template: catalog.Crypto, Prompt: "x"})

			assert.Equal(t, KindUnclassified, KindOf(err))
			assert.True(t, strings.Contains(err.Error(), "empty response"))
		})
	}
}

func TestNewGenerator_Defaults(t *testing.T) {
	g := NewGenerator(Options{})
	assert.Equal(t, DefaultModel, g.Model())
	assert.Equal(t, DefaultTemperature, g.temperature)

	g = NewGenerator(Options{Model: " gemini-2.5-pro ", Temperature: 0.3})
	assert.Equal(t, "gemini-2.5-pro", g.Model())
	assert.InDelta(t, 0.3, g.temperature, 0.0001)
}
