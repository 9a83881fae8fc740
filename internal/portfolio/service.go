// Package portfolio exposes the analysis entry points over a catalog reader.
// Every call fetches fresh records; a Service holds no mutable state.
package portfolio

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/portfolio-cli/internal/completeness"
	"github.com/sells-group/portfolio-cli/internal/config"
	"github.com/sells-group/portfolio-cli/internal/geo"
	"github.com/sells-group/portfolio-cli/internal/model"
	"github.com/sells-group/portfolio-cli/internal/resolve"
	"github.com/sells-group/portfolio-cli/internal/store"
	"github.com/sells-group/portfolio-cli/internal/tenantmix"
)

// ErrNotFound is returned when a target property id does not exist.
var ErrNotFound = eris.New("property not found")

// Service runs analyses against a store.Reader.
type Service struct {
	reader     store.Reader
	policy     tenantmix.Policy
	resolver   resolve.Config
	thresholds completeness.Thresholds
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy sets the tenant-mix scoring policy.
func WithPolicy(p tenantmix.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithResolverConfig sets the name resolver thresholds.
func WithResolverConfig(c resolve.Config) Option {
	return func(s *Service) { s.resolver = c }
}

// WithThresholds sets the completeness priority cut-offs.
func WithThresholds(th completeness.Thresholds) Option {
	return func(s *Service) { s.thresholds = th }
}

// New creates a Service with default policy and thresholds.
func New(reader store.Reader, opts ...Option) *Service {
	s := &Service{
		reader:     reader,
		policy:     tenantmix.DefaultPolicy(),
		resolver:   resolve.DefaultConfig(),
		thresholds: completeness.DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig builds a Service from the application config, loading the
// optional policy file.
func NewFromConfig(reader store.Reader, cfg *config.Config) (*Service, error) {
	policy, err := tenantmix.PolicyFromConfig(cfg.Analysis)
	if err != nil {
		return nil, err
	}
	return New(reader,
		WithPolicy(policy),
		WithResolverConfig(resolve.FromConfig(cfg.Resolver)),
		WithThresholds(completeness.Thresholds{
			High:   cfg.Completeness.HighThreshold,
			Medium: cfg.Completeness.MediumThreshold,
		}),
	), nil
}

// Policy returns the scoring policy in use.
func (s *Service) Policy() tenantmix.Policy { return s.policy }

// ComputeCompletenessReport measures attribute completeness across the
// whole catalog.
func (s *Service) ComputeCompletenessReport(ctx context.Context) (*completeness.Report, error) {
	props, err := s.reader.ListProperties(ctx, store.PropertyFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "portfolio: load properties")
	}
	report := completeness.Calculate(props, s.thresholds)
	zap.L().Debug("portfolio: completeness computed",
		zap.Int("properties", len(props)),
		zap.Int("critical_gaps", len(report.CriticalGaps)),
	)
	return report, nil
}

// CompareTenantCategories compares the target's category mix against the
// pooled competitors.
func (s *Service) CompareTenantCategories(ctx context.Context, targetID int64, competitorIDs []int64) (*tenantmix.Comparison, error) {
	target, competitors, tax, err := s.loadSets(ctx, targetID, competitorIDs)
	if err != nil {
		return nil, err
	}
	return tenantmix.Compare(target, competitors, tax, s.policy), nil
}

// FindMissingBrands lists competitor brands the target lacks.
func (s *Service) FindMissingBrands(ctx context.Context, targetID int64, competitorIDs []int64) ([]tenantmix.MissingBrand, error) {
	target, competitors, tax, err := s.loadSets(ctx, targetID, competitorIDs)
	if err != nil {
		return nil, err
	}
	return tenantmix.MissingBrands(target, competitors, tax), nil
}

// PerformGapAnalysis runs the full comparison, prioritisation and insight
// generation, optionally including the brand diff.
func (s *Service) PerformGapAnalysis(ctx context.Context, targetID int64, competitorIDs []int64, includeBrands bool) (*tenantmix.Analysis, error) {
	target, competitors, tax, err := s.loadSets(ctx, targetID, competitorIDs)
	if err != nil {
		return nil, err
	}
	return tenantmix.Analyze(target, competitors, tax, s.policy, includeBrands), nil
}

// SuggestCompetitors returns the properties nearest the target.
func (s *Service) SuggestCompetitors(ctx context.Context, targetID int64, radiusKM float64, limit int) ([]geo.Neighbour, error) {
	props, err := s.reader.ListProperties(ctx, store.PropertyFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "portfolio: load properties")
	}
	for _, p := range props {
		if p.ID == targetID {
			return geo.Nearest(p, props, radiusKM, limit), nil
		}
	}
	return nil, eris.Wrapf(ErrNotFound, "portfolio: property %d", targetID)
}

// loadSets fetches the target and competitor properties with their
// occupants. Unknown competitor ids and repeats of the target are skipped.
func (s *Service) loadSets(ctx context.Context, targetID int64, competitorIDs []int64) (tenantmix.Set, []tenantmix.Set, *model.Taxonomy, error) {
	ids := uniqueIDs(targetID, competitorIDs)

	props, err := s.reader.ListProperties(ctx, store.PropertyFilter{IDs: ids})
	if err != nil {
		return tenantmix.Set{}, nil, nil, eris.Wrap(err, "portfolio: load properties")
	}
	byID := make(map[int64]model.Property, len(props))
	for _, p := range props {
		byID[p.ID] = p
	}

	targetProp, ok := byID[targetID]
	if !ok {
		return tenantmix.Set{}, nil, nil, eris.Wrapf(ErrNotFound, "portfolio: property %d", targetID)
	}

	found := []int64{targetID}
	for _, id := range ids[1:] {
		if _, ok := byID[id]; !ok {
			zap.L().Warn("portfolio: skipping unknown competitor", zap.Int64("property_id", id))
			continue
		}
		found = append(found, id)
	}

	occupants, err := s.reader.ListOccupants(ctx, found)
	if err != nil {
		return tenantmix.Set{}, nil, nil, eris.Wrap(err, "portfolio: load occupants")
	}
	categories, err := s.reader.ListCategories(ctx)
	if err != nil {
		return tenantmix.Set{}, nil, nil, eris.Wrap(err, "portfolio: load categories")
	}

	grouped := make(map[int64][]model.Occupant, len(found))
	for _, o := range occupants {
		grouped[o.PropertyID] = append(grouped[o.PropertyID], o)
	}

	target := tenantmix.Set{Property: targetProp, Occupants: grouped[targetID]}
	competitors := make([]tenantmix.Set, 0, len(found)-1)
	for _, id := range found[1:] {
		competitors = append(competitors, tenantmix.Set{Property: byID[id], Occupants: grouped[id]})
	}

	zap.L().Debug("portfolio: loaded comparison sets",
		zap.Int64("target_id", targetID),
		zap.Int("competitors", len(competitors)),
		zap.Int("occupants", len(occupants)),
	)
	return target, competitors, model.NewTaxonomy(categories), nil
}

// uniqueIDs returns the target followed by the distinct competitor ids in
// input order.
func uniqueIDs(targetID int64, competitorIDs []int64) []int64 {
	seen := map[int64]bool{targetID: true}
	out := []int64{targetID}
	for _, id := range competitorIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
