// Package runtime interprets jobflow flow definitions.
//
// A Runner walks a domain.Flow state by state: router states call their
// OnEnter handler, prompt states render through a ports.PromptAdapter and
// turn the answer into an event (through OnSelect or the default event
// synthesis). The run stops on the first terminal outcome, which the host
// command interprets. Validate and CheckProjections verify definitions
// before they are ever run.
package runtime
