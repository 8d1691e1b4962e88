// Package cli hosts the interactive commands: it builds flow contexts, runs
// the flows and interprets their terminal outcomes against the build server.
package cli
