// Package httpserver wraps http.Server with address validation, conservative
// timeouts and graceful shutdown for the shell bridge.
package httpserver
