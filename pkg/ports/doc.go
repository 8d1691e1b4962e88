/*
Package ports defines the driven ports (interfaces) of the jobflow engine.

These interfaces decouple the flow runner and its handlers from concrete
terminals and storage, so the same flows run against a real TTY, a line-based
pipe, or a scripted test double.

# Key Interfaces

  - PromptAdapter: renders select/confirm/text prompts and reports cancellation.
  - CacheStore: remembers jobs, recently used jobs and per-job branches.
*/
package ports
