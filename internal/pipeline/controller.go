package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lexgraph/lexgraph/internal/canon"
	"github.com/lexgraph/lexgraph/internal/coref"
	"github.com/lexgraph/lexgraph/internal/extract"
	"github.com/lexgraph/lexgraph/internal/model"
	"github.com/lexgraph/lexgraph/internal/oracle"
	"github.com/lexgraph/lexgraph/internal/relnorm"
	"github.com/lexgraph/lexgraph/internal/segment"
	"github.com/lexgraph/lexgraph/internal/worker"
)

// Controller drives one document through the extraction state machine:
// segment, infer, canonicalize, normalize relations, resolve
// coreference, assess quality. The quality stage may send the machine
// back to inference, at most MaxBacktrackAttempts times.
type Controller struct {
	cfg           *model.Config
	provider      oracle.Provider
	registry      *extract.Registry
	segmenter     *segment.Segmenter
	canonicalizer *canon.Canonicalizer
	normalizer    *relnorm.Normalizer
	resolver      *coref.Resolver
	limiter       *worker.Limiter
}

// NewController creates a controller with the given configuration and
// inference provider. The provider may be wrapped in a cache by the
// caller; the controller does not care.
func NewController(cfg *model.Config, provider oracle.Provider) *Controller {
	return &Controller{
		cfg:           cfg,
		provider:      provider,
		registry:      extract.NewRegistry(),
		segmenter:     segment.New(cfg.Segment),
		canonicalizer: canon.New(cfg.Canon),
		normalizer:    relnorm.New(),
		resolver:      coref.New(cfg.Coref),
		limiter:       worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst),
	}
}

// ExtractFile extracts the document at path and runs the full pipeline
// over its text. Implements worker.Runner for batch processing.
func (c *Controller) ExtractFile(ctx context.Context, path string) (*model.ExtractionResult, error) {
	doc, err := c.registry.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	result, err := c.Run(ctx, doc.Text)
	if result != nil {
		result.SourcePath = path
	}
	return result, err
}

// Run executes the state machine over one document's text. The returned
// result is non-nil whenever the machine reached a terminal state, even
// the failed one; the error is non-nil only for the failed terminal and
// for precondition violations.
func (c *Controller) Run(ctx context.Context, text string) (*model.ExtractionResult, error) {
	if c.provider == nil {
		return nil, errors.New("no oracle provider configured")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty document text")
	}

	state := &State{Text: segment.Clean(text)}
	stage := StageSegment

	for stage != StageSuccess && stage != StageFailed {
		switch stage {
		case StageSegment:
			state.Blocks = c.segmenter.Segment(state.Text)
			state.trace("segment: %d blocks", len(state.Blocks))
			stage = StageInfer

		case StageInfer:
			if err := c.runInfer(ctx, state); err != nil {
				state.Errors = append(state.Errors, err.Error())
				stage = StageFailed
				continue
			}
			state.trace("infer: %d mentions, %d raw relations", len(state.Mentions), len(state.Raws))
			stage = StageCanonicalize

		case StageCanonicalize:
			state.Entities = c.canonicalizer.Canonicalize(state.Mentions)
			state.AliasIndex = canon.BuildAliasIndex(state.Entities, state.Mentions)
			state.trace("canonicalize: %d entities", len(state.Entities))
			stage = StageNormalizeRelations

		case StageNormalizeRelations:
			state.Relations = c.normalizeRelations(state)
			st := relnorm.Statistics(state.Relations)
			state.trace("normalize_relations: %d relations, %d need coref, %d passed validation",
				st.Total, st.NeedCoref, st.ValidationPassed)
			stage = StageResolveCoref

		case StageResolveCoref:
			state.Relations = c.resolver.Resolve(state.Relations, state.Entities)
			stage = StageAssessQuality

		case StageAssessQuality:
			stage = c.assessQuality(ctx, state)
		}
	}

	if stage == StageFailed {
		return state.result(false), fmt.Errorf("pipeline failed: %s", strings.Join(state.Errors, "; "))
	}
	return state.result(true), nil
}

// nerJob asks the oracle for entity mentions in one block.
type nerJob struct {
	c       *Controller
	index   int
	block   model.Block
	report  *model.QualityReport
	attempt int
}

type nerResult struct {
	index    int
	blockID  string
	mentions []model.RawMention
	err      error
}

func (r *nerResult) GetError() error { return r.err }

func (j *nerJob) Execute(ctx context.Context) worker.Result {
	res := &nerResult{index: j.index, blockID: j.block.ID}

	if err := j.c.limiter.Wait(ctx); err != nil {
		res.err = fmt.Errorf("rate limit wait for %s: %w", j.block.ID, err)
		return res
	}

	resp, err := j.c.provider.Complete(ctx, oracle.Request{
		Task:   oracle.TaskNER,
		Prompt: oracle.BuildNERPrompt(j.block, j.report, j.attempt),
	})
	if err != nil {
		res.err = fmt.Errorf("entity inference for %s: %w", j.block.ID, err)
		return res
	}

	mentions, err := oracle.ParseMentions(resp.Content, j.block)
	if err != nil {
		res.err = fmt.Errorf("parse entities for %s: %w", j.block.ID, err)
		return res
	}
	res.mentions = mentions
	return res
}

// runInfer fans entity recognition out over the blocks, merges the
// mentions back in block order, then runs relation extraction over the
// whole document with the mention catalog. Any failed block fails the
// stage: a graph missing a block's entities is worse than no graph.
func (c *Controller) runInfer(ctx context.Context, state *State) error {
	pool := worker.NewPool(c.cfg.Concurrency.NERWorkers)
	pool.Start()
	for i, block := range state.Blocks {
		pool.Submit(&nerJob{
			c:       c,
			index:   i,
			block:   block,
			report:  state.Quality,
			attempt: state.BacktrackCount,
		})
	}
	results := pool.Wait()

	byBlock := make([][]model.RawMention, len(state.Blocks))
	var errs []string
	for _, r := range results {
		res := r.(*nerResult)
		if res.err != nil {
			errs = append(errs, res.err.Error())
			continue
		}
		byBlock[res.index] = res.mentions
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	// Mention ids are assigned here, single-threaded, so they are
	// stable in block order regardless of worker completion order.
	counters := make(map[model.EntityType]int)
	var mentions []model.RawMention
	for _, blockMentions := range byBlock {
		for _, m := range blockMentions {
			m.ID = fmt.Sprintf("%s_%03d", strings.ToLower(string(m.Type)), counters[m.Type])
			counters[m.Type]++
			mentions = append(mentions, m)
		}
	}
	state.Mentions = mentions

	if len(mentions) == 0 {
		state.Raws = nil
		return nil
	}

	catalog := make([]model.CanonicalEntity, 0, len(mentions))
	for _, m := range mentions {
		catalog = append(catalog, model.CanonicalEntity{
			ID:            m.ID,
			Type:          m.Type,
			CanonicalName: m.Text,
		})
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for relation inference: %w", err)
	}
	resp, err := c.provider.Complete(ctx, oracle.Request{
		Task:   oracle.TaskRelation,
		Prompt: oracle.BuildRelationPrompt(state.Text, catalog, state.Quality, state.BacktrackCount),
	})
	if err != nil {
		return fmt.Errorf("relation inference: %w", err)
	}
	raws, err := oracle.ParseRelations(resp.Content)
	if err != nil {
		return fmt.Errorf("parse relations: %w", err)
	}
	state.Raws = raws
	return nil
}

// normalizeRelations remaps relation endpoints through the alias index
// (mention ids and surface forms become canonical entity ids; anything
// the index cannot place stays verbatim for the coreference stage) and
// then normalizes against the schema.
func (c *Controller) normalizeRelations(state *State) []model.NormalizedRelation {
	remapped := make([]model.RawRelation, len(state.Raws))
	for i, raw := range state.Raws {
		remapped[i] = raw
		if e, ok := state.AliasIndex.Resolve(raw.Subject); ok {
			remapped[i].Subject = e.ID
		}
		if e, ok := state.AliasIndex.Resolve(raw.Object); ok {
			remapped[i].Object = e.ID
		}
	}

	entityTypes := make(map[string]model.EntityType, len(state.Entities))
	for _, e := range state.Entities {
		entityTypes[e.ID] = e.Type
	}
	return c.normalizer.Normalize(remapped, entityTypes)
}

// assessQuality asks the oracle to review the extraction and decides
// the next stage. An unreachable or unparseable reviewer degrades to
// the neutral default report rather than failing the document.
func (c *Controller) assessQuality(ctx context.Context, state *State) Stage {
	report := c.reviewExtraction(ctx, state)
	report.EntityCount = len(state.Entities)
	report.RelationCount = len(state.Relations)
	state.Quality = report

	if report.QualityScore >= c.cfg.Pipeline.QualityThreshold {
		state.trace("assess_quality: score %.2f meets threshold %.2f",
			report.QualityScore, c.cfg.Pipeline.QualityThreshold)
		return StageSuccess
	}
	if state.BacktrackCount >= c.cfg.Pipeline.MaxBacktrackAttempts {
		state.trace("assess_quality: score %.2f below threshold, backtrack budget exhausted (%d)",
			report.QualityScore, state.BacktrackCount)
		return StageSuccess
	}

	target := state.backtrackTarget(report.BacktrackStage)
	if target != StageInfer {
		return target
	}
	state.BacktrackCount++
	state.trace("assess_quality: score %.2f below threshold, backtracking (attempt %d)",
		report.QualityScore, state.BacktrackCount)
	state.resetForBacktrack()
	return StageInfer
}

func (c *Controller) reviewExtraction(ctx context.Context, state *State) *model.QualityReport {
	if err := c.limiter.Wait(ctx); err != nil {
		state.Errors = append(state.Errors, fmt.Sprintf("rate limit wait for quality review: %v", err))
		return model.DefaultQualityReport("quality review skipped: " + err.Error())
	}
	resp, err := c.provider.Complete(ctx, oracle.Request{
		Task:   oracle.TaskQuality,
		Prompt: oracle.BuildQualityPrompt(state.Text, state.Entities, state.Relations),
	})
	if err != nil {
		state.Errors = append(state.Errors, fmt.Sprintf("quality review: %v", err))
		return model.DefaultQualityReport("quality review unavailable: " + err.Error())
	}
	return oracle.ParseQuality(resp.Content)
}
