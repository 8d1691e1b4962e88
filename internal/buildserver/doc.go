// Package buildserver is the HTTP client for the remote build-automation
// server (Jenkins JSON API): job listing, triggering, queue polling, build
// information, cancellation and progressive console logs.
package buildserver
