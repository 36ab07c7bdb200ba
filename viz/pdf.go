// ABOUTME: PDF export of the sales report
// ABOUTME: Lays out the report sections as A4 tables with maroto
package viz

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfPrimary = &props.Color{Red: 34, Green: 102, Blue: 51}
	pdfGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// RenderReportPDF returns the report as a PDF document.
func RenderReportPDF(r *Report, f *Formatter) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Sales report", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(14).Add(
		col.New(8).Add(text.New("Sales report", props.Text{
			Style: fontstyle.Bold, Size: 16, Color: pdfPrimary, Top: 2,
		})),
		col.New(4).Add(text.New(r.GeneratedAt.Format("02.01.2006 15:04"), props.Text{
			Size: 9, Align: align.Right, Color: pdfGray, Top: 5,
		})),
	))
	m.AddRows(line.NewRow(2, props.Line{Color: pdfPrimary, Thickness: 0.5}))

	m.AddRows(countSection("Activities by type", r.ActivitiesByType)...)
	m.AddRows(countSection("Clients by status", r.ClientsByStatus)...)
	m.AddRows(countSection("Clients by stage", r.ClientsByStage)...)

	m.AddRows(sectionTitle("Value by segment"))
	m.AddRows(tableRow(true, "Segment", "Clients", "Value"))
	for _, s := range r.ValueBySegment {
		m.AddRows(tableRow(false, "Segment "+string(s.Segment), strconv.Itoa(s.Count), f.Money(s.Value)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate report pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func countSection(title string, counts []Count) []core.Row {
	rows := []core.Row{sectionTitle(title), tableRow(true, "Label", "Count", "")}
	for _, c := range counts {
		rows = append(rows, tableRow(false, c.Label, strconv.Itoa(c.Count), ""))
	}
	return rows
}

func sectionTitle(title string) core.Row {
	return row.New(12).Add(col.New(12).Add(text.New(title, props.Text{
		Style: fontstyle.Bold, Size: 12, Color: pdfPrimary, Top: 5,
	})))
}

func tableRow(header bool, label, count, value string) core.Row {
	style := fontstyle.Normal
	if header {
		style = fontstyle.Bold
	}
	return row.New(7).Add(
		col.New(6).Add(text.New(label, props.Text{Style: style, Size: 9, Top: 1})),
		col.New(2).Add(text.New(count, props.Text{Style: style, Size: 9, Align: align.Right, Top: 1})),
		col.New(4).Add(text.New(value, props.Text{Style: style, Size: 9, Align: align.Right, Top: 1})),
	)
}
