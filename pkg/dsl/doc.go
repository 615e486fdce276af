/*
Package dsl provides a Go DSL for programmatically constructing remapping pipelines.

It replaces almanac or YAML files with a fluent builder, which is handy for generated
pipelines and unit tests.

Example usage:

	b := dsl.New()

	b.Stage("seed").To("soil").
		Rule(50, 98, 2).
		Rule(52, 50, 48)

	b.Stage("soil").To("location").
		Rule(0, 15, 37)

	// The result is a ports.StageLoader.
	loader, err := b.Build()
	// ... pass loader to remap.New(...)
*/
package dsl
