// Package client is a typed Go client for the desktop REST API, used by
// the deskctl command.
//
// Example Usage:
//
//	c := client.New("http://localhost:8000")
//	created, err := c.CreateSession(ctx, types.CreateSessionRequest{Width: 1280, Height: 800})
//	res, err := c.Run(ctx, created.SessionID, "help")
package client
