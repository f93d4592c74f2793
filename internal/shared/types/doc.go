// Package types provides shared data structures for the desktop backend.
//
// Core Types:
//   - Position, Size, Rect: desktop-relative geometry in pixels
//   - Stats: window session statistics
//   - Request types: API and WebSocket payloads
//
// Geometry values are plain values; copying them never aliases store state.
//
// Example Usage:
//
//	r := types.Rect{
//	    Position: types.Position{X: 50, Y: 50},
//	    Size:     types.Size{Width: 800, Height: 500},
//	}
//	right := r.Right()
package types
