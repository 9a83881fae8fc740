package export

import (
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/portfolio-cli/internal/audit"
	"github.com/sells-group/portfolio-cli/internal/model"
	"github.com/sells-group/portfolio-cli/internal/tenantmix"
)

// GapWorkbook writes one sheet per section of a gap analysis.
func GapWorkbook(a *tenantmix.Analysis) (*xlsx.File, error) {
	f := xlsx.NewFile()
	cmp := a.Comparison

	summary, err := addSheet(f, "Summary", "Field", "Value")
	if err != nil {
		return nil, err
	}
	summary.row("Target", cmp.Target.Name)
	summary.row("Target id", cmp.Target.ID)
	summary.row("Competitors", refNames(cmp.Competitors))
	summary.row("Target occupants", cmp.TargetOccupants)
	summary.row("Competitor occupants", cmp.CompetitorOccupants)
	for _, line := range a.Insights {
		summary.row("Insight", line)
	}

	pri, err := addSheet(f, "Priorities",
		"Category", "Kind", "Score", "Priority", "Target %", "Competitor %", "Suggested Stores", "Recommendation")
	if err != nil {
		return nil, err
	}
	for _, p := range a.Priorities {
		pri.row(p.Category, p.Kind, p.Score, p.Priority, p.TargetPercentage, p.CompetitorPercentage, p.SuggestedStores, p.Recommendation)
	}

	missing, err := addSheet(f, "Missing Categories",
		"Category", "Competitor Count", "Competitor %", "Presence %", "Score")
	if err != nil {
		return nil, err
	}
	for _, m := range cmp.Missing {
		missing.row(m.Category, m.CompetitorCount, m.CompetitorPercentage, m.Presence, m.Score)
	}

	variance, err := addSheet(f, "Variance",
		"Category", "Direction", "Target Count", "Competitor Count", "Target %", "Competitor %", "Variance")
	if err != nil {
		return nil, err
	}
	for _, v := range cmp.OverRepresented {
		varianceRow(variance, "over", v)
	}
	for _, v := range cmp.UnderRepresented {
		varianceRow(variance, "under", v)
	}

	brands, err := addSheet(f, "Missing Brands", "Brand", "Category", "Prevalence", "Properties")
	if err != nil {
		return nil, err
	}
	for _, b := range a.MissingBrands {
		brands.row(b.Name, b.Category, b.Prevalence, refNames(b.Properties))
	}

	return f, nil
}

func varianceRow(sh *sheet, direction string, v tenantmix.CategoryVariance) {
	sh.row(v.Category, direction, v.TargetCount, v.CompetitorCount, v.TargetPercentage, v.CompetitorPercentage, v.Variance)
}

// AuditWorkbook lists one row per audited target.
func AuditWorkbook(r *audit.Report) (*xlsx.File, error) {
	f := xlsx.NewFile()

	sh, err := addSheet(f, "Audit",
		"Property Id", "Property", "Status", "Competitors", "Top Gap", "Top Score", "Top Priority", "Suggested Stores", "Missing Brands", "Error")
	if err != nil {
		return nil, err
	}
	for _, res := range r.Results {
		var topGap, topPriority string
		var topScore float64
		var stores, brands int
		if a := res.Analysis; a != nil {
			if len(a.Priorities) > 0 {
				topGap, topScore, topPriority = a.Priorities[0].Category, a.Priorities[0].Score, a.Priorities[0].Priority
			}
			for _, p := range a.Priorities {
				stores += p.SuggestedStores
			}
			brands = len(a.MissingBrands)
		}
		sh.row(res.Target.ID, res.Target.Name, res.Status, refNames(res.Competitors),
			topGap, topScore, topPriority, stores, brands, res.Error)
	}

	meta, err := addSheet(f, "Run", "Field", "Value")
	if err != nil {
		return nil, err
	}
	meta.row("Run id", r.RunID)
	meta.row("Started at", r.StartedAt)
	meta.row("Finished at", r.FinishedAt)
	meta.row("Succeeded", r.Succeeded)
	meta.row("Skipped", r.Skipped)
	meta.row("Failed", r.Failed)

	return f, nil
}

func refNames(refs []model.PropertyRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Name
	}
	return out
}
