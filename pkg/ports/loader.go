package ports

// StageLoader defines how the engine retrieves stage definitions.
// This allows the storage layer (Memory, Loam, Redis) to be decoupled.
type StageLoader interface {
	// GetStage retrieves the raw JSON definition of a stage by ID.
	// Implementations wrap domain.ErrMissingStage when the stage does not exist.
	GetStage(id string) ([]byte, error)

	// ListStages returns the IDs of every stage the loader can serve.
	ListStages() ([]string, error)
}

// SeedSource is implemented by loaders whose input also carries the initial seeds
// (e.g. the almanac text format or a pipeline document).
type SeedSource interface {
	Seeds() []int64
}

// Describer is implemented by loaders that carry human readable stage descriptions.
// Views use it for labels; evaluation never depends on it.
type Describer interface {
	Describe(id string) (string, error)
}
