package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/bookpager/internal/pager"
	"github.com/dgallion1/bookpager/internal/parser"
	"github.com/dgallion1/bookpager/internal/segment"
)

// Worker processes a single book job.
type Worker struct {
	publisher *Publisher
	stats     *JobTimings
	log       *slog.Logger
	pageCfg   pager.Config
	parseOpts parser.Options
}

func NewWorker(publisher *Publisher, stats *JobTimings, log *slog.Logger, pageCfg pager.Config, parseOpts parser.Options) *Worker {
	return &Worker{
		publisher: publisher,
		stats:     stats,
		log:       log,
		pageCfg:   pageCfg,
		parseOpts: parseOpts,
	}
}

// Process runs parse, segment, paginate and (optionally) publish for a job.
// When publishing, the duplicate check runs right after parsing so a known
// book is not segmented or paginated again.
func (w *Worker) Process(ctx context.Context, job *Job) {
	clock := newPhaseClock()
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)
	defer func() {
		if w.stats != nil {
			w.stats.Record(clock.stop(job.Snapshot().Status))
		}
	}()

	cfg := w.pageCfg
	if job.WordsPerPage > 0 {
		cfg.WordsPerPage = job.WordsPerPage
	}
	if err := cfg.Validate(); err != nil {
		w.fail(log, job, "configuring", err)
		return
	}

	// Phase 1: Parse
	clock.enter("parsing")
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parseOpts)
	if err != nil {
		w.fail(log, job, "parsing", err)
		return
	}
	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		w.fail(log, job, "parsing", fmt.Errorf("parse: %w", err))
		return
	}
	job.SetDocument(doc.Title, ContentHashHex([]byte(doc.Text)))

	if w.publisher != nil && !job.Force {
		clock.enter("dedup")
		existing, found, err := w.publisher.Duplicate(ctx, job.ContentHash)
		if err != nil {
			log.Warn("dedup check failed, proceeding", "error", err)
		} else if found {
			log.Info("duplicate document, skipping", "existing_doc_id", existing)
			job.SetDuplicate(existing)
			return
		}
	}

	// Phase 2: Segment
	clock.enter("segmenting")
	job.SetStatus(StatusSegmenting, "segmenting")
	sections := segment.Segment(doc.Text)
	job.SetSections(len(sections))
	log.Info("segmented document", "sections", len(sections))

	// Phase 3: Paginate
	clock.enter("paginating")
	job.SetStatus(StatusPaginating, "paginating")
	result, err := pager.PaginateSections(sections, cfg)
	if err != nil {
		w.fail(log, job, "paginating", err)
		return
	}
	job.SetResult(result, pager.CountWords(doc.Text))
	snap := job.Snapshot()
	log.Info("paginated document", "pages", snap.Progress.Pages, "words", snap.Progress.Words)

	// Phase 4: Publish
	if w.publisher != nil {
		clock.enter("publishing")
		job.SetStatus(StatusPublishing, "publishing")
		stored, err := w.publisher.Publish(ctx, job, result, cfg.WordsPerPage)
		if err != nil {
			w.fail(log, job, "publishing", err)
			return
		}
		log.Info("published document", "pages_stored", stored)
	}

	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase string, err error) {
	log.Error("job failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}
