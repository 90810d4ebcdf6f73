// Package bridge exposes the shell's invocable operations over a loopback
// HTTP API so the desktop webview can call them:
//
//	GET  /api/config/path          -> {"path": "..."}
//	GET  /api/config               -> {"server_url": "..."} or null
//	PUT  /api/config               <- {"server_url": "..."}
//	                               -> {"server_url": "<normalized>"}
//	GET  /api/health?base_url=...  -> health check result
//	GET  /metrics                  -> probe metrics
//
// Failures are returned as {"error": "<message>"}; no structured error codes
// cross this boundary.
package bridge
