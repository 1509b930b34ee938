package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gpt-interface/gpt-interface-go/internal/config"
	"github.com/gpt-interface/gpt-interface-go/internal/provider"
	"github.com/gpt-interface/gpt-interface-go/internal/provider/echo"
	"github.com/gpt-interface/gpt-interface-go/internal/provider/openai"
	"github.com/gpt-interface/gpt-interface-go/internal/routing"
)

// newRouter registers every catalog model against the configured backend.
func newRouter(cfg *config.Config) (*routing.Router, error) {
	models, err := routing.LoadCatalog(cfg.ModelsPath)
	if err != nil {
		return nil, err
	}

	var p provider.Provider
	switch cfg.Backend {
	case config.BackendEcho:
		p = echo.New()
	case config.BackendOpenAI:
		if cfg.APIKey == "" {
			slog.Warn("no API key configured; requests will fail upstream", "env", "OPENAI_API_KEY")
		}
		p = openai.New(openai.Config{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			Organization: cfg.Organization,
		})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}

	rt := routing.New()
	for _, m := range models {
		rt.Register(m, p)
	}
	return rt, nil
}

func setupLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
