// Package main is deskctl, a command-line client for the desktop server.
//
// Usage:
//
//	export DESKCTL_SESSION=$(deskctl session create --quiet)
//	deskctl windows open about
//	deskctl run neofetch
//	deskctl snapshot save work -d "about and terminal"
//
// Every command accepts --json for machine-readable output.
package main
