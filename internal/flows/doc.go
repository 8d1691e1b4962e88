// Package flows defines the four interactions of jobflow as declarative
// state machines: browsing jobs, collecting build inputs, following up on a
// triggered build and following up on a status check.
//
// Each flow comes with its Context type and a handler registry. Handlers
// only mutate their Context, read caches and call the injected action
// callback; user diagnostics go to the Context's Out writer. Interpreting
// terminal outcomes is left to the host command.
package flows
