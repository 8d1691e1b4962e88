/*
Package jobflow is an interactive front end for Jenkins-style build servers.

Every multi-step terminal interaction (picking a job, a branch and build
parameters, then watching or cancelling the build) is a declarative flow: a
finite set of states with prompts, named handlers and an event-to-target
transition table. A single generic runner interprets the flows against a
prompt adapter and returns one of six terminal outcomes that the commands
turn into process behavior.

# Layout

  - pkg/domain: flow, state, prompt and terminal types.
  - pkg/dsl: the fluent builder flows are written with.
  - pkg/registry: named handlers and the events they may emit.
  - pkg/ports: the prompt adapter and cache store boundaries.
  - pkg/adapters: huh forms, line prompts, scripted answers and the
    file, memory and redis caches.
  - internal/runtime: the runner, definition validation and projection checks.
  - internal/flows: browse, pre_build, post_build and post_status.
  - internal/buildserver: the REST client (crumbs, queue polling, logs).
  - internal/cli and cmd/jobflow: the commands.

# Usage

	jobflow                 # browse jobs
	jobflow build api       # collect inputs and trigger api
	jobflow status api      # show the last build of api
	jobflow graph pre_build # mermaid diagram of a flow
*/
package jobflow
