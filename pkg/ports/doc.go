/*
Package ports defines the driven ports (interfaces) for the remap engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to read stage tables from various sources and be served by various adapters.

# Key Interfaces

  - StageLoader: Responsible for loading Stage definitions (e.g., from Memory, Loam or Redis).
  - SeedSource: Optional companion for loaders whose input also lists the seeds.
  - QueryEngine: The query surface adapters (HTTP, MCP) depend on.
*/
package ports
