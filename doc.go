/*
Package remap pushes sets of integers through a chain of piecewise translation tables
and reports where they land.

Each stage of a pipeline maps a source interval to a destination interval by a constant
offset; integers no rule covers pass through unchanged. Rather than mapping integers one
by one, the engine carries half-open ranges through the chain, cutting a range only where
a rule boundary falls inside it. The cost of a query therefore grows with the number of
rules and ranges, never with the magnitude of the numbers.

# Sources

A pipeline can be read from:

  - an almanac text file ("seeds: ..." followed by "<src>-to-<dst> map:" blocks);
  - a YAML or JSON pipeline document;
  - a directory of markdown documents, one stage per file, read through Loam;
  - any custom ports.StageLoader (in memory, Redis, ...).

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/remap"
		"github.com/aretw0/remap/pkg/domain"
	)

	func main() {
		eng, err := remap.New("./input.txt")
		if err != nil {
			log.Fatal(err)
		}

		seeds, err := domain.Pairs(eng.Seeds())
		if err != nil {
			log.Fatal(err)
		}

		lowest, err := eng.Minimum(context.Background(), seeds)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(lowest)
	}

# Errors

Malformed sources fail at New with domain.ErrMalformedInput. A stage that names a next
stage which does not exist is only reported when a query reaches it, as
domain.ErrMissingStage. Asking for the minimum of nothing yields domain.ErrEmptyResult.
*/
package remap
