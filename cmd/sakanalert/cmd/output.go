package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/selhaddad/sakanalert/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printAlertTable(alerts []domain.Alert) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tLOCATION\tSTATUS\tTYPE\tPRICE RANGE\tACTIVE\n")
	for i := range alerts {
		a := &alerts[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\t%v\n",
			a.ID,
			truncate(a.Name, 30),
			a.Filters.Location,
			a.Filters.Status,
			a.Filters.Type,
			priceRange(&a.Filters),
			a.IsActive,
		)
	}
	return tw.finish()
}

func printAlertDetail(a *domain.Alert) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", a.ID)
	tw.writef("User:\t%s\n", a.UserID)
	tw.writef("Name:\t%s\n", a.Name)
	tw.writef("Location:\t%s\n", a.Filters.Location)
	tw.writef("Status:\t%s\n", a.Filters.Status)
	tw.writef("Type:\t%s\n", a.Filters.Type)
	tw.writef("Price:\t%s\n", priceRange(&a.Filters))
	tw.writef("Bedrooms:\t>= %d\n", a.Filters.BedroomsMin)
	tw.writef("Bathrooms:\t>= %d\n", a.Filters.BathroomsMin)
	tw.writef("Area:\t>= %.0f m2\n", a.Filters.AreaMin)
	tw.writef("Active:\t%v\n", a.IsActive)
	if a.LastNotificationAt != nil {
		tw.writef("Last notified:\t%s\n", a.LastNotificationAt.Format("2006-01-02 15:04:05"))
	}
	if a.LastNotificationCount != nil {
		tw.writef("Last match count:\t%d\n", *a.LastNotificationCount)
	}
	return tw.finish()
}

func printRunsTable(runs []domain.MatchRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tSTATUS\tSTARTED\tCOMPLETED\tALERTS\tLISTINGS\tNOTIFIED\tERROR\n")
	for i := range runs {
		r := &runs[i]
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("2006-01-02 15:04:05")
		}
		tw.writef("%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID,
			r.Status,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			completed,
			r.AlertsProcessed,
			r.ListingsChecked,
			r.NotificationsGenerated,
			truncate(r.ErrorText, 40),
		)
	}
	return tw.finish()
}

func priceRange(f *domain.AlertFilters) string {
	if f.PriceMax >= domain.DefaultPriceMax {
		if f.PriceMin == 0 {
			return "any"
		}
		return fmt.Sprintf(">= %.0f", f.PriceMin)
	}
	return fmt.Sprintf("%.0f - %.0f", f.PriceMin, f.PriceMax)
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
