package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"nazcraft_server/internal/ai/prompts"
	"nazcraft_server/internal/catalog"
	"nazcraft_server/internal/metrics"
)

// SiteRequest is one generation: the picked template and the visitor's description.
type SiteRequest struct {
	Template catalog.Template
	Prompt   string
}

// GenerateSite turns a template and description into a single HTML document.
//
// The credential is resolved first; without one the call fails with
// KindMissingCredential and nothing is sent. Unknown templates and blank
// prompts are rejected with ErrUnknownTemplate / ErrEmptyPrompt. Otherwise
// exactly one chat completion is issued and its reply is returned with code
// fences stripped. Service failures come back as *GenerationError.
func (g *Generator) GenerateSite(ctx context.Context, req SiteRequest) (html string, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveGeneration(templateLabel(req.Template), outcomeLabel(err), time.Since(start))
	}()

	apiKey, ok := g.credentials.Credential()
	if !ok {
		g.log.Warn("no credential available, refusing to call the model", map[string]interface{}{
			"template": req.Template.String(),
		})
		return "", missingCredential()
	}
	if !req.Template.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, req.Template)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}

	fullPrompt := prompts.GetSiteGenerationPrompt(req.Template, req.Prompt)
	g.log.Debug("composed site instruction", map[string]interface{}{
		"template":    req.Template.String(),
		"promptChars": len(fullPrompt),
	})

	resp, err := g.complete(ctx, apiKey, fullPrompt)
	if err != nil {
		genErr := classifyError(err)
		g.log.WithError(err).Error("site generation failed", map[string]interface{}{
			"template": req.Template.String(),
			"kind":     string(genErr.Kind),
		})
		return "", genErr
	}

	if len(resp.Choices) > 0 {
		html = StripCodeFences(resp.Choices[0].Message.Content)
	}
	if html == "" {
		g.log.Error("model returned an empty response", map[string]interface{}{
			"template": req.Template.String(),
			"usage":    resp.Usage,
		})
		return "", &GenerationError{Kind: KindUnclassified, Message: "generation service returned an empty response"}
	}

	g.log.Info("site generated", map[string]interface{}{
		"template":  req.Template.String(),
		"htmlChars": len(html),
		"elapsedMs": time.Since(start).Milliseconds(),
	})
	return html, nil
}

func (g *Generator) complete(ctx context.Context, apiKey, fullPrompt string) (openai.ChatCompletionResponse, error) {
	metrics.GenerationsInFlight.Inc()
	defer metrics.GenerationsInFlight.Dec()

	return g.newClient(apiKey).CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: fullPrompt},
			},
			Temperature: g.temperature,
		},
	)
}

// templateLabel keeps the metric label set closed; anything outside the
// catalog is counted as "unknown".
func templateLabel(t catalog.Template) string {
	if !t.Valid() {
		return metrics.UnknownTemplate
	}
	return t.String()
}

func outcomeLabel(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	if kind := KindOf(err); kind != "" {
		return string(kind)
	}
	return "invalid_input"
}
