package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/remap"
)

// maxReportRanges bounds the terminal range listing; the rest is summarized.
const maxReportRanges = 20

// BuildReport renders an evaluation as markdown.
// visits may be nil when no VisitCounter was attached.
func BuildReport(engine *remap.Engine, res *Result, visits map[string]int) string {
	var sb strings.Builder
	p := engine.Pipeline()

	title := engine.Name
	if title == "" {
		title = "pipeline"
	}
	fmt.Fprintf(&sb, "# Evaluation of %s\n\n", title)

	sb.WriteString("| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Start | `%s` |\n", p.Start())
	fmt.Fprintf(&sb, "| Terminal | `%s` |\n", p.Terminal())
	fmt.Fprintf(&sb, "| Seed mode | %s |\n", res.Mode)
	fmt.Fprintf(&sb, "| Seed ranges | %d |\n", len(res.Seeds))
	fmt.Fprintf(&sb, "| Lowest %s | **%d** |\n", p.Terminal(), res.Minimum)
	fmt.Fprintf(&sb, "| Duration | %s |\n\n", res.Duration)

	chain, chainErr := p.Chain()
	sb.WriteString("## Stages\n\n")
	sb.WriteString("| Stage | Next | Rules | Ranges in | Description |\n|---|---|---|---|---|\n")
	for _, id := range chain {
		stage, _ := p.Stage(id)
		desc := strings.ReplaceAll(firstLine(engine.Describe(id)), "|", "\\|")
		fmt.Fprintf(&sb, "| `%s` | `%s` | %d | %d | %s |\n", id, stage.Next, len(stage.Rules), visits[id], desc)
	}
	if chainErr != nil {
		fmt.Fprintf(&sb, "\n> %v\n", chainErr)
	}

	if res.Ranges != nil {
		fmt.Fprintf(&sb, "\n## Terminal ranges (%d)\n\n", len(res.Ranges))
		for i, r := range res.Ranges {
			if i == maxReportRanges {
				fmt.Fprintf(&sb, "- ... %d more\n", len(res.Ranges)-maxReportRanges)
				break
			}
			fmt.Fprintf(&sb, "- `%s`\n", r.Translate())
		}
	}

	return sb.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
