// Package upstream loads keyboard metadata, keyboard downloads and product
// versions for the install page.
//
// Each of the three GETs is attempted exactly once. Failures never abort the
// load; they are recorded on the returned PageState so the page can still
// render what was found.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/keyboardinstall/internal/platform/timeouts"
	apperrors "github.com/louisbranch/keyboardinstall/internal/services/install/platform/errors"
	"github.com/louisbranch/keyboardinstall/internal/services/install/request"
)

const tracerName = "github.com/louisbranch/keyboardinstall/internal/services/install/upstream"

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// FetchMode selects how the three upstream GETs are issued.
type FetchMode string

const (
	// FetchSequential issues the GETs one after another in fetch order.
	FetchSequential FetchMode = "sequential"
	// FetchConcurrent issues all GETs at once. Results are still applied in
	// fetch order, so title and status match FetchSequential.
	FetchConcurrent FetchMode = "concurrent"
)

// ParseFetchMode returns the named mode, defaulting to FetchSequential.
func ParseFetchMode(raw string) (FetchMode, error) {
	switch mode := FetchMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "", FetchSequential:
		return FetchSequential, nil
	case FetchConcurrent:
		return FetchConcurrent, nil
	default:
		return "", fmt.Errorf("unknown fetch mode %q", raw)
	}
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// APIHost is the keyboard metadata API base URL.
	APIHost string
	// DownloadsHost is the downloads and version API base URL.
	DownloadsHost string

	HTTPClient *http.Client
	// Timeout caps each GET. Defaults to timeouts.UpstreamRequest.
	Timeout time.Duration
	Mode    FetchMode

	Logger *zap.SugaredLogger
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// Client fetches install page data from the upstream APIs.
type Client struct {
	apiHost       string
	downloadsHost string
	http          *http.Client
	timeout       time.Duration
	mode          FetchMode
	log           *zap.SugaredLogger
	tracer        trace.Tracer
	maxBody       int64
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	apiHost, err := normalizeHost("api host", cfg.APIHost)
	if err != nil {
		return nil, err
	}
	downloadsHost, err := normalizeHost("downloads host", cfg.DownloadsHost)
	if err != nil {
		return nil, err
	}
	mode, err := ParseFetchMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.UpstreamRequest
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	tracerProvider := cfg.TracerProvider
	if tracerProvider == nil {
		tracerProvider = otel.GetTracerProvider()
	}
	return &Client{
		apiHost:       apiHost,
		downloadsHost: downloadsHost,
		http:          httpClient,
		timeout:       timeout,
		mode:          mode,
		log:           logger,
		tracer:        tracerProvider.Tracer(tracerName),
		maxBody:       maxBodyBytes,
	}, nil
}

func normalizeHost(name, raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%s %q must be an http(s) URL", name, raw)
	}
	return raw, nil
}

// APIHost returns the normalized keyboard metadata API base URL.
func (c *Client) APIHost() string { return c.apiHost }

// DownloadsHost returns the normalized downloads API base URL.
func (c *Client) DownloadsHost() string { return c.downloadsHost }

// KeyboardURL is the metadata API URL for keyboard id.
func (c *Client) KeyboardURL(id string) string {
	return c.apiHost + "/keyboard/" + url.PathEscape(id)
}

// DownloadsURL is the downloads API URL for keyboard id on tier.
func (c *Client) DownloadsURL(id string, tier request.Tier) string {
	return c.downloadsHost + "/api/keyboard/1.0/" + url.PathEscape(id) + "?tier=" + url.QueryEscape(string(tier))
}

// VersionsURL is the product version API URL.
func (c *Client) VersionsURL() string {
	return c.downloadsHost + "/api/version/1.0"
}

type fetch struct {
	span string
	url  string
	body []byte
	err  error
}

// Load fetches keyboard metadata, keyboard downloads and product versions
// and folds the outcomes, in that order, into a PageState.
func (c *Client) Load(ctx context.Context, params request.Params) *PageState {
	fetches := []*fetch{
		{span: "upstream.keyboard", url: c.KeyboardURL(params.ID)},
		{span: "upstream.downloads", url: c.DownloadsURL(params.ID, params.Tier)},
		{span: "upstream.versions", url: c.VersionsURL()},
	}

	switch c.mode {
	case FetchConcurrent:
		var group errgroup.Group
		for _, f := range fetches {
			group.Go(func() error {
				f.body, f.err = c.get(ctx, f.span, f.url)
				return nil
			})
		}
		_ = group.Wait()
	default:
		for _, f := range fetches {
			f.body, f.err = c.get(ctx, f.span, f.url)
		}
	}

	state := NewPageState(params)
	c.applyKeyboard(state, fetches[0])
	c.applyDownloads(state, fetches[1])
	c.applyVersions(state, fetches[2])
	return state
}

func (c *Client) applyKeyboard(state *PageState, f *fetch) {
	failedTitle := "Failed to load keyboard " + state.Params.ID
	if errors.Is(f.err, ErrBodyTooLarge) {
		c.logFailure(f)
		state.record(apperrors.Wrap(apperrors.KindBadUpstream,
			fmt.Sprintf("Error returned from %s: response body exceeds %d bytes", c.apiHost, c.maxBody), f.err), failedTitle, true)
		return
	}
	if f.err != nil {
		c.logFailure(f)
		state.record(apperrors.Wrap(apperrors.KindNotFound, f.err.Error(), f.err), failedTitle, true)
		return
	}
	doc := gjson.ParseBytes(f.body)
	if !gjson.ValidBytes(f.body) || !doc.IsObject() {
		err := apperrors.E(apperrors.KindBadUpstream, fmt.Sprintf("Error returned from %s: %s", c.apiHost, strings.TrimSpace(string(f.body))))
		f.err = err
		c.logFailure(f)
		state.record(err, failedTitle, true)
		return
	}
	state.Keyboard = keyboardFromJSON(doc)
	state.Title = keyboardTitle(state.Keyboard.Name)
}

func (c *Client) applyDownloads(state *PageState, f *fetch) {
	if f.err != nil {
		c.logFailure(f)
		state.record(apperrors.Wrap(apperrors.KindNotFound, f.err.Error(), f.err), "Failed to get downloads for keyboard "+state.Params.ID, false)
		return
	}
	if raw, ok := decoded(f.body); ok {
		state.Downloads = NewDownloadInfo(raw)
	}
}

func (c *Client) applyVersions(state *PageState, f *fetch) {
	if f.err != nil {
		c.logFailure(f)
		state.record(apperrors.Wrap(apperrors.KindNotFound, f.err.Error(), f.err), "Failed to get product version information", false)
		return
	}
	if raw, ok := decoded(f.body); ok {
		state.Versions = NewVersionInfo(raw)
	}
}

// decoded reports whether body holds a JSON value other than null.
func decoded(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	doc := gjson.ParseBytes(body)
	if doc.Type == gjson.Null {
		return "", false
	}
	return doc.Raw, true
}

func (c *Client) logFailure(f *fetch) {
	c.log.Warnw("upstream fetch failed", "fetch", f.span, "url", f.url, "error", f.err)
}

var (
	// ErrUpstreamStatus is wrapped by failures caused by a non-2xx response.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
	// ErrBodyTooLarge is wrapped when a response body is over the read limit.
	// The body is rejected rather than parsed truncated.
	ErrBodyTooLarge = errors.New("upstream response body too large")
)

func (c *Client) get(ctx context.Context, spanName, target string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("http.request.method", http.MethodGet), attribute.String("url.full", target))

	body, err := c.do(ctx, span, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, span trace.Span, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("GET %s: HTTP %s: %w", target, resp.Status, ErrUpstreamStatus)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", target, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("GET %s: response body exceeds %d bytes: %w", target, c.maxBody, ErrBodyTooLarge)
	}
	return body, nil
}
