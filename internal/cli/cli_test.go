package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nazcraft_server/internal/account"
	"nazcraft_server/internal/ai"
	"nazcraft_server/internal/catalog"
	"nazcraft_server/internal/logger"
)

type fakeCompleter struct {
	reply string
	calls int
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.reply}}},
	}, nil
}

func useFakeClient(t *testing.T, f *fakeCompleter) {
	t.Helper()
	prev := clientFactory
	clientFactory = func(string) ai.ClientFactory {
		return func(string) ai.Completer { return f }
	}
	t.Cleanup(func() { clientFactory = prev })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", t.TempDir()))
	err := cmd.Execute()
	return out.String(), err
}

func TestTemplatesCommand(t *testing.T) {
	out, err := run(t, "templates")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(catalog.All()))
	assert.Contains(t, out, "crypto")
}

func TestGenerateCommand_WritesFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	f := &fakeCompleter{reply: "```html\n<!DOCTYPE html><html></html>\n```"}
	useFakeClient(t, f)
	outDir := t.TempDir()

	out, err := run(t, "generate", "--template", "crypto", "--prompt", "A dark exchange", "--out", outDir)
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, outDir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "nazcraft-crypto-"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<!DOCTYPE html><html></html>", string(data))
	assert.Equal(t, 1, f.calls)
}

func TestGenerateCommand_FallbackCredential(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CREDENTIAL_ENV_FALLBACK", "NAZCRAFT_TEST_FALLBACK_KEY")
	t.Setenv("NAZCRAFT_TEST_FALLBACK_KEY", "fallback-key")
	f := &fakeCompleter{reply: "<html></html>"}
	useFakeClient(t, f)

	_, err := run(t, "generate", "-t", "business", "-p", "bakery", "-o", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
}

func TestGenerateCommand_MissingCredential(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CREDENTIAL_ENV_FALLBACK", "NAZCRAFT_TEST_UNSET_KEY")
	f := &fakeCompleter{}
	useFakeClient(t, f)

	_, err := run(t, "generate", "--template", "chat", "--prompt", "support bot")

	require.Error(t, err)
	assert.Equal(t, ai.KindMissingCredential, ai.KindOf(err))
	assert.Zero(t, f.calls)
}

func TestGenerateCommand_UnknownTemplate(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	f := &fakeCompleter{}
	useFakeClient(t, f)

	_, err := run(t, "generate", "--template", "portfolio", "--prompt", "x")

	assert.ErrorIs(t, err, ai.ErrUnknownTemplate)
	assert.Zero(t, f.calls)
}

func TestGenerateCommand_MissingCredentialBeforeTemplate(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CREDENTIAL_ENV_FALLBACK", "NAZCRAFT_TEST_UNSET_KEY")
	useFakeClient(t, &fakeCompleter{})

	_, err := run(t, "generate", "--template", "portfolio", "--prompt", "x")

	assert.Equal(t, ai.KindMissingCredential, ai.KindOf(err))
}

func TestNewRouter_ServesHealth(t *testing.T) {
	a := &app{log: logger.NewNoOpLogger()}
	a.cfg.AppEnv = "production"

	session, err := account.Load(filepath.Join(t.TempDir(), "s.json"), account.AdminCredential{}, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.newRouter(session).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
