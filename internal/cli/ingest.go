package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lmoral/captaleads/internal/config"
	"github.com/lmoral/captaleads/internal/ingest"
	"github.com/lmoral/captaleads/internal/list"
	"github.com/lmoral/captaleads/internal/property"
)

func newIngestCmd() *cobra.Command {
	var (
		listID   int64
		name     string
		location string
		create   bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a scraped payload file",
		Long:  "Ingest a JSON payload file into a list. Target the list by --list-id, by --name/--location, or let a Fotocasa payload name its own location with --create.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(args[0], listID, name, location, create)
		},
	}

	cmd.Flags().Int64Var(&listID, "list-id", 0, "target list ID")
	cmd.Flags().StringVar(&name, "name", "", "target list name")
	cmd.Flags().StringVar(&location, "location", "", "target list location")
	cmd.Flags().BoolVar(&create, "create", false, "create the list if it does not exist")

	return cmd
}

func runIngest(path string, listID int64, name, location string, create bool) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	cfg := config.Load()
	svc := ingest.NewService(
		list.NewRepository(database),
		property.NewRepository(database),
		cfg.PricePerLead,
		slog.Default(),
	)

	var result *ingest.Result
	if listID > 0 {
		result, err = svc.Ingest(listID, payload, 0)
	} else {
		result, err = svc.IngestByName(name, location, create, payload, 0)
	}
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(result)
	}

	printIngestResult(result)
	return nil
}
