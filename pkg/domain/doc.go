/*
Package domain contains the core data model of the remap engine.

It defines the fundamental entities of the interval pipeline and is kept free of
I/O and persistence concerns, following Hexagonal Architecture principles.

# Key Entities

  - Range: a half-open integer interval plus the offset applied on match.
  - Rule: the textual (destination, source, length) triple a Range is built from.
  - Stage: a piecewise translation table from one domain to the next, naming its successor.
  - Pipeline: the frozen chain of Stages from a start id to a terminal sentinel.
  - LifecycleHooks: optional trace callbacks fired while a query runs.
*/
package domain
