package jobflow

// Version is overridden at build time with -ldflags "-X github.com/aretw0/jobflow.Version=...".
var Version = "v0.1.0-dev"
