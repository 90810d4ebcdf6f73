// Package healthcheck probes an AntiHub deployment's health endpoint.
// Deployments either serve the API at the root or behind a /backend proxy
// prefix, so a probe tries {base}/api/health first and falls back to
// {base}/backend/api/health when the first path is missing or unreachable.
package healthcheck
