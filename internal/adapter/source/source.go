package source

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/mmcdole/toonkor/internal/adapter"
	"github.com/mmcdole/toonkor/internal/adapter/source/toonkor"
	"github.com/mmcdole/toonkor/internal/domain"
)

// NewClient creates the search client for the configured collector server
func NewClient(cfg *adapter.Config, logger *slog.Logger) (domain.SearchClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Server.URL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	u, err := url.Parse(cfg.Server.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server URL must be http or https: %s", cfg.Server.URL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("server URL has no host: %s", cfg.Server.URL)
	}

	return toonkor.NewClient(cfg.Server.URL,
		toonkor.WithLogger(logger),
		toonkor.WithTimeout(cfg.Search.Timeout),
	), nil
}
