// Package cli implements the deskctl commands on top of the API client.
package cli
