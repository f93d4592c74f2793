// Package main is the entry point for the DeskFolio desktop server.
//
// The server hosts one simulated desktop per browser tab: windows, dock,
// widgets, terminal, wallpaper and notes. Clients drive it over REST and a
// per-session WebSocket.
//
// Configuration:
//   - .env file (loaded automatically when present)
//   - Environment variables (12-factor)
//   - TOML file named by DESKTOP_CONFIG
//   - CLI flags (override everything else)
//
// Usage:
//
//	# In-memory sessions
//	./server -port 8000
//
//	# Persist layouts in SQLite under ./data
//	./server -storage sqlite -data ./data
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
