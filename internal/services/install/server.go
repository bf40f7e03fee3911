// Package install hosts the keyboard install page HTTP service.
package install

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/louisbranch/keyboardinstall/internal/platform/assets"
	"github.com/louisbranch/keyboardinstall/internal/platform/timeouts"
	"github.com/louisbranch/keyboardinstall/internal/services/install/page"
	"github.com/louisbranch/keyboardinstall/internal/services/install/platform/httpx"
	"github.com/louisbranch/keyboardinstall/internal/services/install/platform/observability"
	"github.com/louisbranch/keyboardinstall/internal/services/install/upstream"
)

// Config defines startup inputs for the install service.
type Config struct {
	HTTPAddr      string
	APIHost       string
	DownloadsHost string
	HelpHost      string
	AssetBaseURL  string

	MacDownloadURL  string
	LinuxInstallURL string
	PlayStoreURL    string
	AppStoreURL     string

	// ShowDiagnostics exposes upstream errors on not-found pages.
	ShowDiagnostics bool
	FetchMode       upstream.FetchMode
	UpstreamTimeout time.Duration

	Logger *zap.SugaredLogger
	// Loader overrides the upstream client built from the hosts above.
	Loader Loader
}

// Server hosts the install HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	log        *zap.SugaredLogger
}

// NewHandler builds the root handler with routes and middleware.
func NewHandler(cfg Config) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	loader := cfg.Loader
	if loader == nil {
		client, err := upstream.NewClient(upstream.ClientConfig{
			APIHost:       cfg.APIHost,
			DownloadsHost: cfg.DownloadsHost,
			Timeout:       cfg.UpstreamTimeout,
			Mode:          cfg.FetchMode,
			Logger:        logger.Named("upstream"),
		})
		if err != nil {
			return nil, fmt.Errorf("build upstream client: %w", err)
		}
		loader = client
	}

	installPage := httpx.Chain(&handler{
		loader: loader,
		page: page.Options{
			Products: page.Products{
				DownloadsHost:   strings.TrimRight(strings.TrimSpace(cfg.DownloadsHost), "/"),
				HelpHost:        strings.TrimRight(strings.TrimSpace(cfg.HelpHost), "/"),
				MacDownloadURL:  cfg.MacDownloadURL,
				LinuxInstallURL: cfg.LinuxInstallURL,
				PlayStoreURL:    cfg.PlayStoreURL,
				AppStoreURL:     cfg.AppStoreURL,
			},
			Assets:          assets.New(cfg.AssetBaseURL),
			ShowDiagnostics: cfg.ShowDiagnostics,
		},
		log: logger,
	}, httpx.RequireMethods(http.MethodGet, http.MethodHead, http.MethodPost))

	mux := http.NewServeMux()
	mux.Handle("/keyboards/install", installPage)
	mux.Handle("/keyboards/install/{id}", installPage)
	mux.Handle("/healthz", httpx.Chain(http.HandlerFunc(healthz), httpx.RequireMethods(http.MethodGet, http.MethodHead)))

	return httpx.Chain(mux,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		observability.RequestLogger(logger),
	), nil
}

// NewServer validates config and constructs an install server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose install handler: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		log: logger,
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("install server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	listener, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpAddr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until context cancellation or
// server stop.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s == nil {
		return errors.New("install server is nil")
	}
	s.log.Infow("install server listening", "addr", listener.Addr().String())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown install http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve install http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
