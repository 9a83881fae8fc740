package export

import (
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/portfolio-cli/internal/completeness"
)

var fieldHeader = []string{
	"Attribute", "Label", "Band", "Missing", "Relevant", "Complete %", "Priority", "Method", "Denominator",
}

// CompletenessWorkbook lays the report out over Fields, Critical Gaps and
// Overview sheets.
func CompletenessWorkbook(r *completeness.Report) (*xlsx.File, error) {
	f := xlsx.NewFile()

	fields, err := addSheet(f, "Fields", fieldHeader...)
	if err != nil {
		return nil, err
	}
	for _, g := range r.Fields {
		fieldRow(fields, g)
	}

	critical, err := addSheet(f, "Critical Gaps", fieldHeader...)
	if err != nil {
		return nil, err
	}
	for _, g := range r.CriticalGaps {
		fieldRow(critical, g)
	}

	ov, err := addSheet(f, "Overview", "Metric", "Value")
	if err != nil {
		return nil, err
	}
	o := r.Overview
	ov.row("Total properties", o.TotalProperties)
	ov.row("Shopping centres", o.ShoppingCentres)
	ov.row("Retail parks", o.RetailParks)
	ov.row("With website", o.WithWebsite)
	ov.row("With coordinates", o.WithCoordinates)
	ov.row("Average completeness %", o.AverageCompleteness)
	ov.row("Generated at", r.GeneratedAt)

	return f, nil
}

func fieldRow(sh *sheet, g completeness.FieldGap) {
	sh.row(g.Attribute, g.Label, g.Band, g.Missing, g.Relevant, g.Percentage, g.Priority, g.Method, g.Denominator)
}
