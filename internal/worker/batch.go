package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/paperforge/internal/logging"
	"github.com/ppiankov/paperforge/internal/model"
	"github.com/ppiankov/paperforge/internal/paper"
)

// DraftStore is the part of store.Store the renderer needs
type DraftStore interface {
	Load(ctx context.Context, id string) (*model.Draft, error)
	Save(ctx context.Context, d *model.Draft) error
}

// RenderJob assembles the final paper of one draft and saves it
type RenderJob struct {
	ID         string
	Store      DraftStore
	Translator paper.Translator
}

// Execute loads the draft, writes Layers.FinalPaper and persists it
func (j *RenderJob) Execute(ctx context.Context) Result {
	res := &RenderResult{ID: j.ID}

	if err := ctx.Err(); err != nil {
		res.Error = err
		return res
	}

	draft, err := j.Store.Load(ctx, j.ID)
	if err != nil {
		res.Error = fmt.Errorf("load draft %s: %w", j.ID, err)
		return res
	}

	t := j.Translator
	if t == nil {
		t = paper.DefaultTranslator
	}
	draft.Layers.FinalPaper = paper.GeneratePositionPaperTemplate(draft, t)

	if err := j.Store.Save(ctx, draft); err != nil {
		res.Error = fmt.Errorf("save draft %s: %w", j.ID, err)
		return res
	}

	res.Draft = draft
	res.Paper = draft.Layers.FinalPaper
	return res
}

// RenderResult is the outcome of one RenderJob
type RenderResult struct {
	ID    string
	Draft *model.Draft
	Paper string
	Error error
}

// Err returns the render error, if any
func (r *RenderResult) Err() error {
	return r.Error
}

// BatchRenderer renders many drafts concurrently
type BatchRenderer struct {
	store       DraftStore
	translator  paper.Translator
	concurrency int
	log         *logging.Logger
}

// NewBatchRenderer creates a renderer. A nil translator uses English.
func NewBatchRenderer(store DraftStore, translator paper.Translator, concurrency int, log *logging.Logger) *BatchRenderer {
	if log == nil {
		log = logging.Nop()
	}
	return &BatchRenderer{
		store:       store,
		translator:  translator,
		concurrency: concurrency,
		log:         log,
	}
}

// RenderDrafts renders each distinct id once, returning results in input order
func (b *BatchRenderer) RenderDrafts(ctx context.Context, ids []string) []*RenderResult {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return []*RenderResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	for _, id := range ids {
		if !pool.Submit(&RenderJob{ID: id, Store: b.store, Translator: b.translator}) {
			break
		}
	}

	results := pool.Wait()

	rendered := make([]*RenderResult, 0, len(results))
	for _, r := range results {
		rr := r.(*RenderResult)
		if rr.Error != nil {
			b.log.Warn("render failed", "draft", rr.ID, "error", rr.Error)
		} else {
			b.log.Debug("rendered", "draft", rr.ID, "bytes", len(rr.Paper))
		}
		rendered = append(rendered, rr)
	}
	return rendered
}

// ReadIDsFromFile reads draft ids, one per line. Blank lines and # comments
// are skipped; duplicates are dropped.
func ReadIDsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var ids []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return dedupe(ids), nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
