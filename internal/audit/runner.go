// Package audit runs gap analyses across a whole portfolio, pairing each
// target with its nearest like-for-like competitors.
package audit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/portfolio-cli/internal/config"
	"github.com/sells-group/portfolio-cli/internal/geo"
	"github.com/sells-group/portfolio-cli/internal/model"
	"github.com/sells-group/portfolio-cli/internal/portfolio"
	"github.com/sells-group/portfolio-cli/internal/store"
	"github.com/sells-group/portfolio-cli/internal/tenantmix"
)

// Result statuses.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// TargetResult is the outcome for one audited property.
type TargetResult struct {
	Target      model.PropertyRef   `json:"target"`
	Status      string              `json:"status"`
	Competitors []model.PropertyRef `json:"competitors"`
	Analysis    *tenantmix.Analysis `json:"analysis,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// Report summarises an audit run. Results follow the target listing order.
type Report struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Results    []TargetResult `json:"results"`
	Succeeded  int            `json:"succeeded"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
}

// Runner audits every property of the configured types.
type Runner struct {
	reader store.Reader
	svc    *portfolio.Service
	cfg    config.AuditConfig
}

// NewRunner builds a Runner whose reads all pass through a rate limiter.
// svcOpts configure the underlying portfolio.Service.
func NewRunner(reader store.Reader, cfg config.AuditConfig, svcOpts ...portfolio.Option) *Runner {
	limited := NewRateLimitedReader(reader, cfg.ReadsPerSecond)
	return &Runner{
		reader: limited,
		svc:    portfolio.New(limited, svcOpts...),
		cfg:    cfg,
	}
}

// Run audits each target concurrently. A failed target is recorded in the
// report and does not stop the run; only a failed target listing or a
// cancelled context returns an error.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}
	log := zap.L().With(zap.String("run_id", report.RunID))

	targets, err := r.reader.ListProperties(ctx, store.PropertyFilter{Types: r.cfg.PropertyTypes})
	if err != nil {
		return nil, eris.Wrap(err, "audit: list targets")
	}

	concurrency := max(1, r.cfg.Concurrency)
	log.Info("audit: starting",
		zap.Int("targets", len(targets)),
		zap.Int("concurrency", concurrency),
		zap.Float64("radius_km", r.cfg.RadiusKM),
		zap.Strings("property_types", r.cfg.PropertyTypes),
	)

	results := make([]TargetResult, len(targets))
	var succeeded, skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range targets {
		target := targets[i]
		g.Go(func() error {
			res := r.auditOne(gctx, target, targets)
			results[i] = res

			switch res.Status {
			case StatusOK:
				succeeded.Add(1)
			case StatusSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
				log.Warn("audit: target failed",
					zap.Int64("property_id", target.ID),
					zap.String("error", res.Error),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Results = results
	report.Succeeded = int(succeeded.Load())
	report.Skipped = int(skipped.Load())
	report.Failed = int(failed.Load())
	report.FinishedAt = time.Now().UTC()

	log.Info("audit: complete",
		zap.Int("succeeded", report.Succeeded),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)

	if err := ctx.Err(); err != nil {
		return report, eris.Wrap(err, "audit: run cancelled")
	}
	return report, nil
}

// auditOne picks the target's nearest peers from the same population and
// runs the full gap analysis against them.
func (r *Runner) auditOne(ctx context.Context, target model.Property, population []model.Property) TargetResult {
	res := TargetResult{Target: target.Ref(), Competitors: []model.PropertyRef{}}

	neighbours := geo.Nearest(target, population, r.cfg.RadiusKM, r.cfg.Competitors)
	if len(neighbours) == 0 {
		res.Status = StatusSkipped
		if !target.HasCoordinates() {
			res.Error = "no coordinates"
		} else {
			res.Error = fmt.Sprintf("no competitors within %.0f km", r.cfg.RadiusKM)
		}
		return res
	}

	ids := make([]int64, len(neighbours))
	for i, n := range neighbours {
		ids[i] = n.Property.ID
		res.Competitors = append(res.Competitors, n.Property.Ref())
	}

	analysis, err := r.svc.PerformGapAnalysis(ctx, target.ID, ids, true)
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}
	res.Status = StatusOK
	res.Analysis = analysis
	return res
}
