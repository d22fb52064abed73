package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lexgraph/lexgraph/internal/model"
)

// Segmenter splits cleaned document text into typed, hierarchically
// linked blocks by heading-pattern matching. Segmentation is
// deterministic: the same text always yields the same blocks with the
// same ids.
type Segmenter struct {
	minBlockLength int
}

// New creates a segmenter from configuration.
func New(cfg model.SegmentConfig) *Segmenter {
	return &Segmenter{minBlockLength: cfg.MinBlockLength}
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Clean normalizes whitespace: collapses runs of three or more
// newlines to one blank line and strips every line.
func Clean(text string) string {
	text = blankRuns.ReplaceAllString(text, "\n\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

type heading struct {
	pos   int // byte offset of the heading line in the cleaned text
	title string
	typ   model.BlockType
}

// Segment cleans the text and returns its blocks in document order.
// When no heading is recognized the whole text becomes a single OTHER
// block with no parent.
func (s *Segmenter) Segment(text string) []model.Block {
	cleaned := Clean(text)
	headings := findHeadings(cleaned)
	blocks := buildBlocks(headings, cleaned)
	assignParents(blocks)
	return blocks
}

func findHeadings(text string) []heading {
	var found []heading
	pos := 0
	for _, line := range strings.Split(text, "\n") {
		if line != "" {
			if typ, ok := matchHeading(line); ok {
				found = append(found, heading{pos: pos, title: line, typ: typ})
			}
		}
		pos += len(line) + 1
	}
	return found
}

func buildBlocks(headings []heading, text string) []model.Block {
	if len(headings) == 0 {
		if text == "" {
			return nil
		}
		return []model.Block{{
			ID:       blockID(1),
			Type:     model.BlockOther,
			Title:    "全文",
			Content:  text,
			StartPos: 0,
			EndPos:   len(text),
		}}
	}

	var blocks []model.Block
	next := 1

	// Synthetic leading block for any prefix before the first heading.
	if first := headings[0].pos; first > 0 {
		blocks = append(blocks, model.Block{
			ID:       blockID(next),
			Type:     model.BlockOther,
			Title:    "文档开头",
			Content:  strings.TrimSpace(text[:first]),
			StartPos: 0,
			EndPos:   first,
		})
		next++
	}

	for i, h := range headings {
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].pos
		}
		blocks = append(blocks, model.Block{
			ID:       blockID(next),
			Type:     h.typ,
			Title:    h.title,
			Content:  strings.TrimSpace(text[h.pos+len(h.title) : end]),
			StartPos: h.pos,
			EndPos:   end,
			Level:    hierarchyLevel(h.title),
		})
		next++
	}
	return blocks
}

// assignParents links each level>0 block to the nearest earlier block
// with a strictly smaller positive level, using a stack over document
// order.
func assignParents(blocks []model.Block) {
	type frame struct {
		id    string
		level int
	}
	var stack []frame
	for i := range blocks {
		if blocks[i].Level <= 0 {
			continue
		}
		for len(stack) > 0 && stack[len(stack)-1].level >= blocks[i].Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			blocks[i].ParentID = stack[len(stack)-1].id
		}
		stack = append(stack, frame{blocks[i].ID, blocks[i].Level})
	}
}

// Stats summarizes a segmentation run for verbose output.
type Stats struct {
	Total       int
	ByType      map[model.BlockType]int
	WithParent  int
	ShortBlocks int // blocks whose content is shorter than the configured minimum
}

// Statistics computes summary counts over a block list.
func (s *Segmenter) Statistics(blocks []model.Block) Stats {
	st := Stats{Total: len(blocks), ByType: make(map[model.BlockType]int)}
	for _, b := range blocks {
		st.ByType[b.Type]++
		if b.ParentID != "" {
			st.WithParent++
		}
		if len([]rune(b.Content)) < s.minBlockLength {
			st.ShortBlocks++
		}
	}
	return st
}

func blockID(n int) string {
	return fmt.Sprintf("block_%04d", n)
}
