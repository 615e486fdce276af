// Package almanac reads the plain-text almanac format:
//
//	seeds: 79 14 55 13
//
//	seed-to-soil map:
//	50 98 2
//	52 50 48
//
// Every "<src>-to-<dst> map:" block becomes a stage whose id is src and whose next stage is dst.
// Each line under a block is "destination source length".
package almanac

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/aretw0/remap/pkg/adapters/memory"
	"github.com/aretw0/remap/pkg/domain"
)

//nolint:govet // participle grammar tags are not standard struct tags
type almanacGrammar struct {
	Seeds  []int64         `parser:"'seeds' ':' @Int*"`
	Blocks []*blockGrammar `parser:"@@*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type blockGrammar struct {
	Pos     lexer.Position
	Source  string          `parser:"@Ident '-' 'to' '-'"`
	Dest    string          `parser:"@Ident 'map' ':'"`
	Entries []*entryGrammar `parser:"@@*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type entryGrammar struct {
	Destination int64 `parser:"@Int"`
	Source      int64 `parser:"@Int"`
	Length      int64 `parser:"@Int"`
}

var almanacLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\r\n]*`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[-:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var almanacParser = participle.MustBuild[almanacGrammar](
	participle.Lexer(almanacLexer),
	participle.Elide("Comment", "Whitespace"),
)

// Almanac is a parsed almanac: the seed list and one block per stage, in file order.
type Almanac struct {
	Seeds  []int64
	Blocks []domain.StageBlock
}

// Parse reads an almanac from r.
// Any syntax error, including a mapping line without exactly three integers, is reported as ErrMalformedInput.
func Parse(r io.Reader) (*Almanac, error) {
	parsed, err := almanacParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}

	a := &Almanac{
		Seeds:  parsed.Seeds,
		Blocks: make([]domain.StageBlock, 0, len(parsed.Blocks)),
	}
	seen := make(map[string]lexer.Position, len(parsed.Blocks))
	for _, b := range parsed.Blocks {
		if prev, dup := seen[b.Source]; dup {
			return nil, fmt.Errorf("%w: %s: stage %q already defined at line %d",
				domain.ErrMalformedInput, b.Pos, b.Source, prev.Line)
		}
		seen[b.Source] = b.Pos

		block := domain.StageBlock{
			ID:    b.Source,
			Next:  b.Dest,
			Rules: make([]domain.Rule, 0, len(b.Entries)),
		}
		for _, e := range b.Entries {
			block.Rules = append(block.Rules, domain.Rule{
				Destination: e.Destination,
				Source:      e.Source,
				Length:      e.Length,
			})
		}
		a.Blocks = append(a.Blocks, block)
	}
	return a, nil
}

// ParseString parses an almanac held in memory.
func ParseString(s string) (*Almanac, error) {
	return Parse(bytes.NewBufferString(s))
}

// ParseFile parses the almanac at path.
func ParseFile(path string) (*Almanac, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open almanac: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Points treats every seed as a single integer.
func (a *Almanac) Points() []domain.Range {
	return domain.Points(a.Seeds)
}

// Pairs reads the seeds as consecutive (start, length) pairs.
func (a *Almanac) Pairs() ([]domain.Range, error) {
	return domain.Pairs(a.Seeds)
}

// Loader exposes the stages as a ports.StageLoader that also carries the seeds.
func (a *Almanac) Loader() (*memory.Loader, error) {
	loader, err := memory.NewFromStages(a.Blocks...)
	if err != nil {
		return nil, err
	}
	return loader.WithSeeds(a.Seeds...), nil
}

// Pipeline builds the frozen pipeline for the given start and terminal stages.
func (a *Almanac) Pipeline(start, terminal string) (*domain.Pipeline, error) {
	return domain.BuildPipeline(a.Blocks, start, terminal)
}
