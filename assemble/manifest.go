package assemble

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/overlay"
)

// ManifestReport describes a rendered manifest.
type ManifestReport struct {
	Output   string // empty when rendered to a writer
	Pages    int
	Plan     overlay.Plan
	Warnings []error
}

// ManifestJob is one manifest of a batch.
type ManifestJob struct {
	Record cargodoc.ManifestRecord
	Output string
}

// RenderManifest overlays rec on the configured template and writes the
// result to outputPath. A record with no field set yields
// cargodoc.ErrEmptyInput; a missing template yields
// cargodoc.ErrTemplateMissing. In both cases outputPath is not created.
func (a *Assembler) RenderManifest(rec cargodoc.ManifestRecord, outputPath string) (*ManifestReport, error) {
	if rec.IsEmpty() {
		return nil, cargodoc.NewError("RenderManifest", outputPath, cargodoc.ErrEmptyInput, nil)
	}
	res, err := a.merger.RenderFile(rec, a.template, outputPath)
	if err != nil {
		a.logger.Error("manifest render failed",
			zap.String("bl_number", rec.BLNumber),
			zap.String("template", a.template),
			zap.Error(err))
		return nil, err
	}
	a.logger.Info("manifest rendered",
		zap.String("bl_number", rec.BLNumber),
		zap.String("output", outputPath),
		zap.Int("pages", res.Pages))
	return &ManifestReport{Output: outputPath, Pages: res.Pages, Plan: res.Plan, Warnings: res.Warnings}, nil
}

// WriteManifest is RenderManifest writing to w.
func (a *Assembler) WriteManifest(w io.Writer, rec cargodoc.ManifestRecord) (*ManifestReport, error) {
	if rec.IsEmpty() {
		return nil, cargodoc.NewError("RenderManifest", "", cargodoc.ErrEmptyInput, nil)
	}
	res, err := a.merger.Render(w, rec, a.template)
	if err != nil {
		return nil, err
	}
	return &ManifestReport{Pages: res.Pages, Plan: res.Plan, Warnings: res.Warnings}, nil
}

// RenderManifests renders jobs concurrently, at most limit at a time (no
// limit when limit <= 0). Reports are returned in job order. Output paths
// must be distinct; duplicates are rejected with cargodoc.ErrDuplicateOutput
// before anything is rendered. The first failure cancels the jobs that have
// not started yet, as does cancelling ctx.
func (a *Assembler) RenderManifests(ctx context.Context, jobs []ManifestJob, limit int) ([]*ManifestReport, error) {
	seen := make(map[string]int, len(jobs))
	for i, job := range jobs {
		key := filepath.Clean(job.Output)
		if j, ok := seen[key]; ok {
			return nil, cargodoc.NewError("RenderManifests", job.Output, cargodoc.ErrDuplicateOutput,
				fmt.Errorf("jobs %d and %d", j, i))
		}
		seen[key] = i
	}

	reports := make([]*ManifestReport, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := a.RenderManifest(job.Record, job.Output)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	if err := ctx.Err(); err != nil {
		return reports, err
	}
	return reports, nil
}
