package loam

// StageMetadata represents the frontmatter of a stage document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
//
// Rules accept either a "destination source length" string or a
// three element list, so both of these are valid:
//
//	rules:
//	  - "50 98 2"
//	  - [52, 50, 48]
type StageMetadata struct {
	ID    string `json:"id" mapstructure:"id"`
	Next  string `json:"next" mapstructure:"next"`
	Rules []any  `json:"rules" mapstructure:"rules"`

	// Description is free text shown by the graph and report views.
	Description string `json:"description,omitempty" mapstructure:"description"`
}
