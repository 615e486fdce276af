package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/remap/pkg/domain"
)

// GraphOverlay contains per-query data to visualize on the graph.
type GraphOverlay struct {
	// Visits counts how many ranges entered each stage.
	Visits map[string]int
	// Labels replaces the stage id in a node's caption, e.g. with its description.
	Labels map[string]string
}

// GenerateMermaid produces a Mermaid flowchart of the stage chain.
// It applies semantic styling:
// - Start stage: ((Circle))
// - Terminal domain: ([Stadium])
// - Stage without rules: [/Parallelogram/] (identity)
// - Default: [Rectangle]
// Edges are labelled with the number of rules of the source stage.
func GenerateMermaid(stages []domain.Stage, start, terminal string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	known := make(map[string]bool, len(stages))
	for _, st := range stages {
		known[st.ID] = true
	}

	for _, st := range stages {
		safeID := sanitizeMermaidID(st.ID)

		opener, closer := "[", "]"
		switch {
		case st.ID == start:
			opener, closer = "((", "))"
		case len(st.Rules) == 0:
			opener, closer = "[/", "/]"
		}

		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, caption(st.ID, overlay), closer)

		arrow := fmt.Sprintf("-- \"%d rules\" -->", len(st.Rules))
		if len(st.Rules) == 1 {
			arrow = "-- \"1 rule\" -->"
		}
		if !known[st.Next] && st.Next != terminal {
			// Dangling reference, only fails once a query reaches it.
			arrow = "-. missing .->"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(st.Next))
	}

	fmt.Fprintf(&sb, "    %s([\"%s\"])\n", sanitizeMermaidID(terminal), caption(terminal, overlay))

	if overlay != nil && len(overlay.Visits) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		for _, st := range stages {
			if overlay.Visits[st.ID] > 0 {
				fmt.Fprintf(&sb, "    class %s visited;\n", sanitizeMermaidID(st.ID))
			}
		}
	}

	return sb.String()
}

func caption(id string, overlay *GraphOverlay) string {
	label := id
	if overlay != nil {
		if l, ok := overlay.Labels[id]; ok && l != "" {
			label = l
		}
		if n := overlay.Visits[id]; n > 0 {
			label = fmt.Sprintf("%s <br/> %d ranges", label, n)
		}
	}
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
