package main

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/portfolio-cli/internal/portfolio"
	"github.com/sells-group/portfolio-cli/internal/store"
)

// env bundles the store and service a command runs against.
type env struct {
	Store   store.Store
	Service *portfolio.Service
}

func (e *env) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

func initEnv(ctx context.Context) (*env, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	svc, err := portfolio.NewFromConfig(st, cfg)
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "init service")
	}
	return &env{Store: st, Service: svc}, nil
}

// parseIDs parses a comma separated id list such as "2,3, 4".
func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, eris.Errorf("invalid property id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// competitorIDs returns the explicit list, or the nearest properties to the
// target when none were given.
func competitorIDs(ctx context.Context, svc *portfolio.Service, targetID int64, explicit string, radiusKM float64, limit int) ([]int64, error) {
	ids, err := parseIDs(explicit)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		return ids, nil
	}

	neighbours, err := svc.SuggestCompetitors(ctx, targetID, radiusKM, limit)
	if err != nil {
		return nil, err
	}
	if len(neighbours) == 0 {
		return nil, eris.Errorf("no competitors within %.0f km of property %d; pass --competitors", radiusKM, targetID)
	}
	for _, n := range neighbours {
		ids = append(ids, n.Property.ID)
	}
	zap.L().Info("selected nearest competitors",
		zap.Int64("target_id", targetID),
		zap.Int64s("competitor_ids", ids),
		zap.Float64("radius_km", radiusKM),
	)
	return ids, nil
}

// openOutput returns stdout when path is empty.
func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, func() { _ = f.Close() }, nil
}
