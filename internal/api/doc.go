// Package api provides the HTTP REST API and WebSocket server for
// Storefront Core.
//
// It exposes account registration and login, the product catalogue with
// ownership-based write access, the audit trail, and real-time catalogue
// events over WebSocket.
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// All responses share one envelope: {"success": true, "data": ...} on
// success, {"success": false, "message": "..."} on failure. Clients branch
// on status codes and the success flag, never on message text.
//
// Thread Safety: all methods are safe for concurrent use from multiple
// goroutines.
package api
