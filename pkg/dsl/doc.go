/*
Package dsl provides a fluent builder for jobflow flow definitions.

Flows are authored once in Go and never mutated at runtime. The builder keeps
the definition readable as a table while catching authoring mistakes (a
state with both a prompt and a router handler, a duplicated event) at build
time. Structural checks that need the handler registry live in
internal/runtime.Validate.

Example usage:

	b := dsl.New[*Ctx]("post_build").Initial("menu")

	b.Add("menu").
		Select("What next?",
			domain.Option{Value: "done", Label: "Done"},
		).
		Go("select:done", "ask").
		End("esc", domain.ExitCommand)

	b.Add("ask").Root().
		Confirm("Run again?", false).
		End("confirm:yes", domain.Repeat).
		End("confirm:no", domain.ExitCommand).
		End("esc", domain.ExitCommand)

	flow := b.MustBuild()
*/
package dsl
