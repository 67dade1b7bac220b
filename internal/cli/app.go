package cli

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"nazcraft_server/config"
	"nazcraft_server/internal/ai"
	"nazcraft_server/internal/credential"
	"nazcraft_server/internal/logger"
)

// clientFactory builds the outbound client for a base URL. Tests swap it for a fake.
var clientFactory = ai.OpenAIClientFactory

type app struct {
	cfg config.Config
	log logger.Logger
	zap *zap.Logger
}

// bootstrap loads .env, then the config, then builds the logger the config asks for.
func bootstrap(configDir string) (*app, error) {
	boot := logger.Wrap(logger.New("info", "console"))

	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			boot.Warn("error loading .env file", map[string]interface{}{"error": err.Error()})
		} else {
			boot.Debug(".env file not found, relying on system environment variables", nil)
		}
	} else {
		boot.Info("loaded environment variables from .env file", nil)
	}

	cfg, err := config.LoadConfig(configDir, boot)
	if err != nil {
		return nil, err
	}

	zl := logger.New(cfg.LogLevel, cfg.LogFormat)
	return &app{cfg: cfg, log: logger.Wrap(zl), zap: zl}, nil
}

func (a *app) close() {
	_ = a.zap.Sync()
}

// newGenerator resolves the key per call: the configured GEMINI_API_KEY first,
// then whatever environment variable CREDENTIAL_ENV_FALLBACK names.
func (a *app) newGenerator() *ai.Generator {
	return ai.NewGenerator(ai.Options{
		Credentials: credential.Chain{
			credential.Static(a.cfg.GeminiAPIKey),
			credential.Env(a.cfg.CredentialEnvFallback),
		},
		NewClient:   clientFactory(a.cfg.GenerationBaseURL),
		Model:       a.cfg.GenerationModel,
		Temperature: a.cfg.GenerationTemperature,
		Logger:      a.log,
	})
}
