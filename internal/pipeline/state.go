package pipeline

import (
	"fmt"

	"github.com/lexgraph/lexgraph/internal/canon"
	"github.com/lexgraph/lexgraph/internal/model"
)

// Stage names one step of the extraction state machine.
type Stage string

const (
	StageSegment            Stage = "segment"
	StageInfer              Stage = "infer"
	StageCanonicalize       Stage = "canonicalize"
	StageNormalizeRelations Stage = "normalize_relations"
	StageResolveCoref       Stage = "resolve_coref"
	StageAssessQuality      Stage = "assess_quality"
	StageSuccess            Stage = "success"
	StageFailed             Stage = "failed"
)

// deterministicStages are stages whose output is a pure function of the
// inference output. Backtracking into one of them would reproduce the
// same result, so a backtrack request naming one is redirected to the
// inference stage instead.
var deterministicStages = map[Stage]bool{
	StageSegment:            true,
	StageCanonicalize:       true,
	StageNormalizeRelations: true,
	StageResolveCoref:       true,
}

// State carries everything the controller accumulates across stages of
// one document. Backtracking truncates it; nothing else mutates
// earlier-stage output.
type State struct {
	Text       string
	Blocks     []model.Block
	Mentions   []model.RawMention
	Raws       []model.RawRelation
	Entities   []model.CanonicalEntity
	AliasIndex *canon.AliasIndex
	Relations  []model.NormalizedRelation

	Quality        *model.QualityReport
	BacktrackCount int
	Errors         []string
	Trace          []string
}

func (s *State) trace(format string, args ...any) {
	s.Trace = append(s.Trace, fmt.Sprintf(format, args...))
}

// resetForBacktrack discards everything the inference stage and its
// successors produced, keeping the blocks and the quality report so the
// next pass can feed the reviewer's feedback back into the prompts.
func (s *State) resetForBacktrack() {
	s.Mentions = nil
	s.Raws = nil
	s.Entities = nil
	s.AliasIndex = nil
	s.Relations = nil
}

// backtrackTarget maps the reviewer's suggested stage onto the stage
// the controller actually re-enters. Deterministic stages redirect to
// inference; anything unrecognized ends the loop rather than burning a
// retry on a stage that does not exist.
func (s *State) backtrackTarget(suggested string) Stage {
	target := Stage(suggested)
	if target == StageInfer {
		return StageInfer
	}
	if deterministicStages[target] {
		s.trace("backtrack redirected from deterministic stage %s to %s", target, StageInfer)
		return StageInfer
	}
	s.trace("backtrack stage %q not recognized, accepting result", suggested)
	return StageSuccess
}

// result snapshots the state into the per-document output record.
func (s *State) result(success bool) *model.ExtractionResult {
	return &model.ExtractionResult{
		Text:           s.Text,
		Blocks:         s.Blocks,
		Entities:       s.Entities,
		Relations:      s.Relations,
		Quality:        s.Quality,
		BacktrackCount: s.BacktrackCount,
		Errors:         s.Errors,
		Success:        success,
	}
}
