// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ExternalCall caps a single call to an external collaborator (role
// assignment, workspace provisioning) when no override is configured.
const ExternalCall = 5 * time.Second

// HealthProbe caps how long a health probe waits for SERVING.
const HealthProbe = 3 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
