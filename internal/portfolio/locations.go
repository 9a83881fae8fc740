package portfolio

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/portfolio-cli/internal/model"
	"github.com/sells-group/portfolio-cli/internal/resolve"
	"github.com/sells-group/portfolio-cli/internal/store"
)

// ResolveLocation resolves free text to a single property and reports the
// outcome as data. The error is non-nil only when the catalog fetch fails.
func (s *Service) ResolveLocation(ctx context.Context, text string, opts resolve.Options) (resolve.Result, error) {
	if resolve.Clean(text) == "" {
		return resolve.Result{Query: text, Status: resolve.StatusEmptyInput}, nil
	}
	r, err := s.newResolver(ctx)
	if err != nil {
		return resolve.Result{}, err
	}
	res := r.Resolve(text, opts)
	zap.L().Debug("portfolio: resolved location",
		zap.String("query", text),
		zap.String("status", string(res.Status)),
		zap.Int("suggestions", len(res.Suggestions)),
	)
	return res, nil
}

// ResolveLocationName resolves free text to a single property, failing with
// resolve.ErrEmptyInput, resolve.ErrAmbiguous or resolve.ErrNoMatch.
func (s *Service) ResolveLocationName(ctx context.Context, text string, opts resolve.Options) (*resolve.Match, error) {
	res, err := s.ResolveLocation(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Match, nil
}

// SearchLocationsByName returns ranked candidates for text. Only a catalog
// fetch failure produces an error.
func (s *Service) SearchLocationsByName(ctx context.Context, text string, limit int, city string) ([]resolve.Match, error) {
	if resolve.Clean(text) == "" {
		return []resolve.Match{}, nil
	}
	r, err := s.newResolver(ctx)
	if err != nil {
		return nil, err
	}
	return r.Search(text, limit, city), nil
}

// ResolveMultipleLocationNames resolves each name in turn. It fails only
// when the fetch fails or every name failed; per-name failures are in the
// result either way.
func (s *Service) ResolveMultipleLocationNames(ctx context.Context, texts []string, opts resolve.Options) (*resolve.BatchResult, error) {
	r, err := s.newResolver(ctx)
	if err != nil {
		return nil, err
	}
	out, err := r.ResolveMany(texts, opts)
	for _, f := range out.Failures {
		zap.L().Warn("portfolio: could not resolve location",
			zap.String("query", f.Query),
			zap.Error(f.Err),
		)
	}
	return &out, err
}

func (s *Service) newResolver(ctx context.Context) (*resolve.Resolver, error) {
	props, err := s.reader.ListProperties(ctx, store.PropertyFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "portfolio: load catalog")
	}
	return resolve.New(Candidates(props), s.resolver), nil
}

// Candidates converts properties into resolver candidates.
func Candidates(props []model.Property) []resolve.Candidate {
	out := make([]resolve.Candidate, 0, len(props))
	for _, p := range props {
		out = append(out, resolve.Candidate{
			ID:     p.ID,
			Name:   p.Name,
			City:   p.CityName(),
			County: p.CountyName(),
		})
	}
	return out
}
