package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lmoral/captaleads/internal/ingest"
	"github.com/lmoral/captaleads/internal/list"
	"github.com/lmoral/captaleads/internal/listrequest"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printListSummary prints a single list in text format.
func printListSummary(l *list.List) {
	fmt.Printf("List #%d\n", l.ID)
	fmt.Printf("  Name:     %s\n", l.Name)
	fmt.Printf("  Location: %s\n", l.Location)
	fmt.Printf("  Price:    %s\n", formatMoney(l.Price, l.Currency))
}

// printListTable prints lists as a formatted table.
func printListTable(lists []*list.List) error {
	if len(lists) == 0 {
		fmt.Println("No lists found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tLOCATION\tPRICE\tUPDATED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t--------\t-----\t-------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, l := range lists {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			l.ID, truncate(l.Name, 30), truncate(l.Location, 30),
			formatMoney(l.Price, l.Currency),
			l.UpdatedAt.Format("2006-01-02 15:04")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d lists\n", len(lists))
	return nil
}

// printRequestTable prints list requests as a formatted table.
func printRequestTable(requests []*listrequest.Request) error {
	if len(requests) == 0 {
		fmt.Println("No requests found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tUSER\tLOCATION\tSTATUS\tCREATED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t--------\t------\t-------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, req := range requests {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
			req.ID, req.UserID, truncate(req.Location, 30), req.Status,
			req.CreatedAt.Format("2006-01-02")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d requests\n", len(requests))
	return nil
}

// printIngestResult prints an upload outcome in text format.
func printIngestResult(result *ingest.Result) {
	fmt.Printf("Ingested into list #%d (%s)", result.ListID, result.ListName)
	if result.ListCreated {
		fmt.Print(" [created]")
	}
	fmt.Println()
	fmt.Printf("  Format:     %s\n", result.Format)
	fmt.Printf("  Total:      %d\n", result.Stats.Total)
	fmt.Printf("  New:        %d\n", result.Stats.New)
	fmt.Printf("  Updated:    %d\n", result.Stats.Updated)
	fmt.Printf("  Duplicates: %d\n", result.Stats.Duplicates)
	fmt.Printf("  Errors:     %d\n", result.Stats.Errors)
	for _, e := range result.Errors {
		fmt.Printf("    - %s\n", e)
	}
}

func printRemoved(what string, id int64) {
	fmt.Printf("%s #%d removed.\n", what, id)
}

// formatMoney renders a minor-unit amount like "250.00 EUR".
func formatMoney(cents int64, currency string) string {
	if currency == "" {
		currency = "EUR"
	}
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
