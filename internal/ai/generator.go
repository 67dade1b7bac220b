package ai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"nazcraft_server/internal/credential"
	"nazcraft_server/internal/logger"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible surface.
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = float32(0.7)
)

// Completer is the slice of *openai.Client the generator needs.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ClientFactory builds a Completer bound to one access token. The generator
// calls it once per request because the token is resolved per request.
type ClientFactory func(apiKey string) Completer

// Options configures a Generator. Zero values fall back to the defaults above.
type Options struct {
	Credentials credential.Provider
	NewClient   ClientFactory
	BaseURL     string
	Model       string
	Temperature float32
	Logger      logger.Logger
}

type Generator struct {
	credentials credential.Provider
	newClient   ClientFactory
	model       string
	temperature float32
	log         logger.Logger
}

func NewGenerator(opts Options) *Generator {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	newClient := opts.NewClient
	if newClient == nil {
		newClient = OpenAIClientFactory(opts.BaseURL)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	creds := opts.Credentials
	if creds == nil {
		creds = credential.Chain{}
	}

	return &Generator{
		credentials: creds,
		newClient:   newClient,
		model:       model,
		temperature: temperature,
		log:         log.With(map[string]interface{}{"component": "generator", "model": model}),
	}
}

// OpenAIClientFactory returns a factory for go-openai clients pointed at
// baseURL (DefaultBaseURL when empty). go-openai's default HTTP client is
// used as-is, so no timeout is imposed here.
func OpenAIClientFactory(baseURL string) ClientFactory {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return func(apiKey string) Completer {
		config := openai.DefaultConfig(apiKey)
		config.BaseURL = baseURL
		return openai.NewClientWithConfig(config)
	}
}

// Model reports the model identifier sent with every request.
func (g *Generator) Model() string {
	return g.model
}
