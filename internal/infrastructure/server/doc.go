// Package server assembles the desktop service: storage, session manager,
// middleware chain, REST routes and the WebSocket stream.
//
// Example Usage:
//
//	srv, err := server.New(cfg, logger, server.Options{})
//	go srv.Run()
//	defer srv.Shutdown(ctx)
package server
