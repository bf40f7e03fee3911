// Package install parses install page service flags and launches the service.
package install

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/keyboardinstall/internal/platform/cmd"
	"github.com/louisbranch/keyboardinstall/internal/platform/logging"
	"github.com/louisbranch/keyboardinstall/internal/platform/timeouts"
	installsvc "github.com/louisbranch/keyboardinstall/internal/services/install"
	"github.com/louisbranch/keyboardinstall/internal/services/install/upstream"
)

// Deployment tiers.
const (
	TierDevelopment = "development"
	TierStaging     = "staging"
	TierProduction  = "production"
)

// Config holds install command configuration. Env keys are read with the
// KEYBOARD_INSTALL_ prefix.
type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR"      envDefault:"localhost:8095"`
	APIHost       string `env:"API_HOST"       envDefault:"https://api.keyman.com"`
	DownloadsHost string `env:"DOWNLOADS_HOST" envDefault:"https://downloads.keyman.com"`
	HelpHost      string `env:"HELP_HOST"      envDefault:"https://help.keyman.com"`
	AssetBaseURL  string `env:"ASSET_BASE_URL"`

	MacDownloadURL  string `env:"MAC_DOWNLOAD_URL"  envDefault:"https://keyman.com/mac/download"`
	LinuxInstallURL string `env:"LINUX_INSTALL_URL" envDefault:"https://keyman.com/linux/download"`
	PlayStoreURL    string `env:"PLAY_STORE_URL"    envDefault:"https://play.google.com/store/apps/details?id=com.tavultesoft.kmapro"`
	AppStoreURL     string `env:"APP_STORE_URL"     envDefault:"https://apps.apple.com/app/id933676545"`

	DeploymentTier  string        `env:"DEPLOYMENT_TIER"  envDefault:"production"`
	DisplayErrors   bool          `env:"DISPLAY_ERRORS"   envDefault:"true"`
	FetchMode       string        `env:"FETCH_MODE"       envDefault:"sequential"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIHost, "api-host", cfg.APIHost, "Keyboard metadata API base URL")
	fs.StringVar(&cfg.DownloadsHost, "downloads-host", cfg.DownloadsHost, "Downloads and version API base URL")
	fs.StringVar(&cfg.HelpHost, "help-host", cfg.HelpHost, "Product help site base URL")
	fs.StringVar(&cfg.AssetBaseURL, "asset-base-url", cfg.AssetBaseURL, "Static asset CDN base URL (defaults to /cdn)")
	fs.StringVar(&cfg.DeploymentTier, "deployment-tier", cfg.DeploymentTier, "Deployment tier: development, staging or production")
	fs.BoolVar(&cfg.DisplayErrors, "display-errors", cfg.DisplayErrors, "Show upstream errors on not-found pages in development")
	fs.StringVar(&cfg.FetchMode, "fetch-mode", cfg.FetchMode, "Upstream fetch mode: sequential or concurrent")
	fs.DurationVar(&cfg.UpstreamTimeout, "upstream-timeout", cfg.UpstreamTimeout, "Timeout for each upstream request")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.DeploymentTier = strings.ToLower(strings.TrimSpace(c.DeploymentTier))
	switch c.DeploymentTier {
	case TierDevelopment, TierStaging, TierProduction:
	default:
		return fmt.Errorf("unknown deployment tier %q", c.DeploymentTier)
	}
	mode, err := upstream.ParseFetchMode(c.FetchMode)
	if err != nil {
		return err
	}
	c.FetchMode = string(mode)
	if c.UpstreamTimeout <= 0 {
		c.UpstreamTimeout = timeouts.UpstreamRequest
	}
	return nil
}

// ShowDiagnostics reports whether not-found pages expose upstream errors.
func (c Config) ShowDiagnostics() bool {
	return c.DeploymentTier == TierDevelopment && c.DisplayErrors
}

// ServiceConfig maps command configuration onto the install service.
func (c Config) ServiceConfig() installsvc.Config {
	return installsvc.Config{
		HTTPAddr:        c.HTTPAddr,
		APIHost:         c.APIHost,
		DownloadsHost:   c.DownloadsHost,
		HelpHost:        c.HelpHost,
		AssetBaseURL:    c.AssetBaseURL,
		MacDownloadURL:  c.MacDownloadURL,
		LinuxInstallURL: c.LinuxInstallURL,
		PlayStoreURL:    c.PlayStoreURL,
		AppStoreURL:     c.AppStoreURL,
		ShowDiagnostics: c.ShowDiagnostics(),
		FetchMode:       upstream.FetchMode(c.FetchMode),
		UpstreamTimeout: c.UpstreamTimeout,
	}
}

// Run starts the install page service.
func Run(ctx context.Context, cfg Config) error {
	logger := logging.New(entrypoint.ServiceInstall, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceInstall, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		serviceCfg := cfg.ServiceConfig()
		serviceCfg.Logger = logger
		server, err := installsvc.NewServer(ctx, serviceCfg)
		if err != nil {
			return fmt.Errorf("init install server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve install: %w", err)
		}
		return nil
	})
}
