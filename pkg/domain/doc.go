/*
Package domain contains the core types of the jobflow interactive flow engine.

It defines the declarative shape of a flow (states, prompts, transitions), the
closed vocabulary of terminal outcomes that host commands interpret, and the
lifecycle events emitted while a flow runs. This package is kept pure and free
of I/O, following the same hexagonal split as the rest of the module.

# Key Entities

  - Flow: an immutable table of states with one initial state.
  - State: either a router (OnEnter handler, no prompt) or an interactive prompt.
  - Transitions: per-state map from EventID to the next StateID or a Terminal.
  - Terminal: one of six reserved end-of-run outcomes.
  - Result: what a run returns to the host (terminal, last state, context).
*/
package domain
