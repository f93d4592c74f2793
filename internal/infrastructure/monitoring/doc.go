/*
Package monitoring provides metrics collection for the desktop backend.

# Overview

This package implements Prometheus-based metrics collection, tracking HTTP
requests, desktop windows, terminal commands, sessions, persistence writes
and WebSocket traffic.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record domain metrics
	metrics.WindowOpened()
	metrics.RecordTerminalCommand("help")

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

Window gauges are shared by every desktop, so stores report deltas
(WindowOpened, WindowClosed) rather than absolute counts.
*/
package monitoring
