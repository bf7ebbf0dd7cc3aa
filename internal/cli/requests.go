package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lmoral/captaleads/internal/list"
	"github.com/lmoral/captaleads/internal/listrequest"
)

func newRequestsCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Review agent list requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequests(status)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending|approved|rejected)")

	cmd.AddCommand(newRequestsApproveCmd(), newRequestsRejectCmd())

	return cmd
}

func newRequestsApproveCmd() *cobra.Command {
	var (
		name     string
		price    int64
		currency string
	)

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a request and create its list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runRequestsApprove(id, name, price, currency)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "list name (default: requested location)")
	cmd.Flags().Int64Var(&price, "price", 0, "list price in cents")
	cmd.Flags().StringVar(&currency, "currency", "EUR", "price currency")

	return cmd
}

func newRequestsRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runRequestsReject(id)
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q", arg)
	}
	return id, nil
}

func runRequests(status string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	var filter listrequest.Status
	if status != "" {
		filter, err = listrequest.ParseStatus(status)
		if err != nil {
			return err
		}
	}

	requests, err := listrequest.NewRepository(database).List(filter)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(requests)
	}
	return printRequestTable(requests)
}

func runRequestsApprove(id int64, name string, price int64, currency string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	svc := listrequest.NewService(
		listrequest.NewRepository(database),
		list.NewRepository(database),
	)

	req, created, err := svc.Approve(id, name, price, currency)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]interface{}{"request": req, "list": created})
	}

	fmt.Printf("Request #%d approved.\n", req.ID)
	printListSummary(created)
	return nil
}

func runRequestsReject(id int64) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	svc := listrequest.NewService(
		listrequest.NewRepository(database),
		list.NewRepository(database),
	)

	req, err := svc.Reject(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(req)
	}
	fmt.Printf("Request #%d rejected.\n", req.ID)
	return nil
}
