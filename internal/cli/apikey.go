package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmoral/captaleads/internal/auth"
)

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage admin API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPIKeyList()
		},
	}

	cmd.AddCommand(newAPIKeyCreateCmd(), newAPIKeyDeleteCmd())

	return cmd
}

func newAPIKeyCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an API key (raw key is shown once)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPIKeyCreate(args[0])
		},
	}
}

func newAPIKeyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runAPIKeyDelete(id)
		},
	}
}

func runAPIKeyList() error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	keys, err := auth.NewAPIKeyStore(database).List()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(keys)
	}

	if len(keys) == 0 {
		fmt.Println("No API keys.")
		return nil
	}
	for _, k := range keys {
		fmt.Printf("#%d  %s…  %s  (created %s)\n",
			k.ID, k.KeyPrefix, k.Name, k.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func runAPIKeyCreate(name string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	raw, key, err := auth.NewAPIKeyStore(database).Create(name)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]interface{}{"id": key.ID, "name": key.Name, "key": raw})
	}

	fmt.Printf("API key #%d (%s) created.\n", key.ID, key.Name)
	fmt.Printf("Key (save it now, it will not be shown again):\n  %s\n", raw)
	return nil
}

func runAPIKeyDelete(id int64) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := auth.NewAPIKeyStore(database).Delete(id); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]interface{}{"id": id, "removed": true})
	}
	printRemoved("API key", id)
	return nil
}
