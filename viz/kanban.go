// ABOUTME: Pipeline kanban grouping clients into stage columns
// ABOUTME: Column order follows the pipeline; clients keep their stored order within a column
package viz

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/harperreed/salescrm/models"
)

type KanbanColumn struct {
	Stage   models.Stage
	Clients []models.Client
	Value   decimal.Decimal
}

// Kanban builds one column per pipeline stage. Clients with an unknown stage
// are left out.
func Kanban(ds models.Dataset) []KanbanColumn {
	cols := make([]KanbanColumn, len(models.Stages))
	for i, st := range models.Stages {
		cols[i].Stage = st
	}
	for _, c := range ds.Clients {
		i := c.OpportunityStatus.Index()
		if i < 0 {
			continue
		}
		cols[i].Clients = append(cols[i].Clients, c)
		cols[i].Value = cols[i].Value.Add(c.PotentialValue)
	}
	return cols
}

func RenderKanban(cols []KanbanColumn, f *Formatter) string {
	var out strings.Builder

	for _, col := range cols {
		out.WriteString(fmt.Sprintf("%s (%d, %s)\n", strings.ToUpper(string(col.Stage)), len(col.Clients), f.Money(col.Value)))
		if len(col.Clients) == 0 {
			out.WriteString("  -\n")
		}
		for _, c := range col.Clients {
			out.WriteString(fmt.Sprintf("  [%s] %-32s %s\n", c.Segment, truncate(c.CompanyName, 32), f.Money(c.PotentialValue)))
		}
		out.WriteString("\n")
	}

	return out.String()
}
