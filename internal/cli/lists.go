package cli

import (
	"github.com/spf13/cobra"

	"github.com/lmoral/captaleads/internal/list"
)

func newListsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage property lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLists()
		},
	}

	cmd.AddCommand(newListsCreateCmd(), newListsDeleteCmd())

	return cmd
}

func newListsCreateCmd() *cobra.Command {
	var (
		location string
		price    int64
		currency string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListsCreate(args[0], location, price, currency)
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "list location (required)")
	cmd.Flags().Int64Var(&price, "price", 0, "list price in cents")
	cmd.Flags().StringVar(&currency, "currency", "EUR", "price currency")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

func newListsDeleteCmd() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a list and its properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListsDelete(id)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "list ID (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runLists() error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	lists, err := list.NewRepository(database).List()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(lists)
	}
	return printListTable(lists)
}

func runListsCreate(name, location string, price int64, currency string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	l, err := list.NewRepository(database).Create(name, location, price, currency)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(l)
	}
	printListSummary(l)
	return nil
}

func runListsDelete(id int64) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := list.NewRepository(database).Delete(id); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]interface{}{"id": id, "removed": true})
	}
	printRemoved("List", id)
	return nil
}
