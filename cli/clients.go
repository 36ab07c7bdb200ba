// ABOUTME: Client and activity CLI commands
// ABOUTME: Human-friendly listings and detail views over the store
package cli

import (
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/salescrm/models"
	"github.com/harperreed/salescrm/store"
	"github.com/harperreed/salescrm/viz"
)

// ListClientsCommand lists clients matching optional search and filters.
func ListClientsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-clients", flag.ContinueOnError)
	query := fs.String("query", "", "Search by name, email, city or phone")
	status := fs.String("status", "", "Filter by client status (prospect, active, lost)")
	segment := fs.String("segment", "", "Filter by segment (A, B, C)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	clients := app.Store.FindClients(store.ClientFilter{
		Query:   *query,
		Status:  models.ClientStatus(*status),
		Segment: models.Segment(*segment),
	})

	if len(clients) == 0 {
		_, _ = fmt.Fprintln(app.Out, "No clients found")
		return nil
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCITY\tSTATUS\tSTAGE\tSEG\tVALUE\tID")
	_, _ = fmt.Fprintln(w, "----\t----\t------\t-----\t---\t-----\t--")

	for _, c := range clients {
		city := c.City
		if city == "" {
			city = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.CompanyName, city, c.ClientStatus, c.OpportunityStatus, c.Segment,
			app.Format.Money(c.PotentialValue), c.ID)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(app.Out, "\n%d client(s)\n", len(clients))
	return nil
}

// ShowClientCommand prints one client with its activity history.
func ShowClientCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("show-client", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("client ID required")
	}

	id := fs.Arg(0)
	c, ok := app.Store.Client(id)
	if !ok {
		return fmt.Errorf("client %s: %w", id, store.ErrClientNotFound)
	}
	now := app.Now()

	out := app.Out
	_, _ = fmt.Fprintf(out, "%s\n", c.CompanyName)
	_, _ = fmt.Fprintf(out, "  ID:        %s\n", c.ID)
	_, _ = fmt.Fprintf(out, "  Tax ID:    %s\n", c.TaxID)
	if c.Email != "" {
		_, _ = fmt.Fprintf(out, "  Email:     %s\n", c.Email)
	}
	if c.Phone != "" {
		_, _ = fmt.Fprintf(out, "  Phone:     %s\n", c.Phone)
	}
	_, _ = fmt.Fprintf(out, "  Address:   %s, %s %s, %s\n", c.Street, c.PostalCode, c.City, c.Country)
	_, _ = fmt.Fprintf(out, "  Status:    %s\n", c.ClientStatus)
	_, _ = fmt.Fprintf(out, "  Stage:     %s\n", c.OpportunityStatus)
	_, _ = fmt.Fprintf(out, "  Value:     %s (segment %s)\n", app.Format.Money(c.PotentialValue), c.Segment)
	if c.LastContactAt != nil {
		_, _ = fmt.Fprintf(out, "  Last:      %s\n", viz.DateLabel(*c.LastContactAt, now))
	} else {
		_, _ = fmt.Fprintln(out, "  Last:      never")
	}
	if c.NextActionAt != nil {
		_, _ = fmt.Fprintf(out, "  Next:      %s\n", viz.DateLabel(*c.NextActionAt, now))
	}
	if c.Geo != nil {
		_, _ = fmt.Fprintf(out, "  Directions: %s\n", viz.DirectionsURL(c))
	}
	if c.Notes != "" {
		_, _ = fmt.Fprintf(out, "  Notes:     %s\n", c.Notes)
	}

	activities := app.Store.ActivitiesForClient(id)
	_, _ = fmt.Fprintf(out, "\nActivities (%d)\n", len(activities))
	writeActivities(app, activities, false)
	return nil
}

// ListActivitiesCommand lists activities, optionally for one client.
func ListActivitiesCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-activities", flag.ContinueOnError)
	clientID := fs.String("client", "", "Only activities for this client ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var activities []models.Activity
	if *clientID != "" {
		if _, ok := app.Store.Client(*clientID); !ok {
			return fmt.Errorf("client %s: %w", *clientID, store.ErrClientNotFound)
		}
		activities = app.Store.ActivitiesForClient(*clientID)
	} else {
		activities = app.Store.Activities()
	}

	if len(activities) == 0 {
		_, _ = fmt.Fprintln(app.Out, "No activities found")
		return nil
	}
	writeActivities(app, activities, true)
	return nil
}

func writeActivities(app *App, activities []models.Activity, withClient bool) {
	names := map[string]string{}
	if withClient {
		for _, c := range app.Store.Clients() {
			names[c.ID] = c.CompanyName
		}
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	header := "WHEN\tTYPE\tTITLE\tSTATUS\tRESULT"
	if withClient {
		header += "\tCLIENT"
	}
	_, _ = fmt.Fprintln(w, header+"\tID")

	for _, a := range activities {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
			a.ScheduledAt.In(app.Now().Location()).Format("02.01.2006 15:04"),
			a.Type, a.Title, a.Status, a.Result)
		if withClient {
			name := names[a.ClientID]
			if name == "" {
				name = "?"
			}
			line += "\t" + name
		}
		_, _ = fmt.Fprintln(w, line+"\t"+a.ID)
	}
	_ = w.Flush()
}
