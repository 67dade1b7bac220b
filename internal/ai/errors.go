package ai

import (
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Input errors. These are caller mistakes, not generation failures.
var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrEmptyPrompt     = errors.New("prompt must not be empty")
)

// Kind classifies a failed generation.
type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindInvalidCredential Kind = "invalid_credential"
	KindResourceNotFound  Kind = "resource_not_found"
	KindUnclassified      Kind = "unclassified"
)

const (
	msgMissingCredential = "API key not found. Please set GEMINI_API_KEY (or API_KEY) and try again."
	msgInvalidCredential = "Invalid API key. Please re-enter or reconnect your key."
	msgResourceNotFound  = "The requested model was not found. Please check your API key and model configuration."
	msgUnclassified      = "Failed to generate website."
)

// GenerationError is the only error shape that leaves GenerateSite after the
// outbound call was attempted (or refused for lack of a credential).
type GenerationError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or "" when err is not a GenerationError.
func KindOf(err error) Kind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

func missingCredential() *GenerationError {
	return &GenerationError{Kind: KindMissingCredential, Message: msgMissingCredential}
}

var (
	invalidCredentialHints = []string{
		"api key not valid",
		"invalid api key",
		"incorrect api key",
		"api_key_invalid",
		"unauthorized",
		"permission denied",
	}
	notFoundHints = []string{
		"entity was not found",
		"not found",
	}
)

// classifyError maps a transport or service error onto the taxonomy. Status
// codes win over message matching when the client exposes them.
func classifyError(err error) *GenerationError {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge
	}

	status, raw := inspect(err)
	lower := strings.ToLower(raw)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden || containsAny(lower, invalidCredentialHints):
		return &GenerationError{Kind: KindInvalidCredential, Message: msgInvalidCredential, Err: err}
	case status == http.StatusNotFound || containsAny(lower, notFoundHints):
		return &GenerationError{Kind: KindResourceNotFound, Message: msgResourceNotFound, Err: err}
	default:
		msg := strings.TrimSpace(raw)
		if msg == "" {
			msg = msgUnclassified
		}
		return &GenerationError{Kind: KindUnclassified, Message: msg, Err: err}
	}
}

// inspect pulls the HTTP status and the most specific message out of err.
func inspect(err error) (int, string) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if strings.TrimSpace(msg) == "" {
			msg = err.Error()
		}
		return apiErr.HTTPStatusCode, msg
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, err.Error()
	}
	return 0, err.Error()
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
