// Package timeouts defines shared timeout constants used by the install
// service. Centralizing these values keeps the HTTP server and the upstream
// client from drifting apart.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// UpstreamRequest caps a single GET against the keyboard metadata or
// downloads API when no explicit timeout is configured.
const UpstreamRequest = 10 * time.Second

// TelemetryShutdown limits how long pending spans may take to flush.
const TelemetryShutdown = 5 * time.Second
