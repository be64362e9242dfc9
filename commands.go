package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bookstore-manager/internal/config"
	"bookstore-manager/shell"
)

func newRootCmd(a *app) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "bookstore",
		Short:         "Bookstore inventory and sales ledger",
		Long:          "Records book sales against members and stock, with an interactive menu when run without a subcommand.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return a.open(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts := cmd.InOrStdin() == os.Stdin && term.IsTerminal(int(os.Stdin.Fd()))
			return shell.New(a.mgr, cmd.InOrStdin(), cmd.OutOrStdout(), prompts).Run()
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./bookstore.yaml)")
	root.PersistentFlags().String("db", "", "SQLite database path (default: bookstore.db)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default: warn)")
	root.PersistentFlags().String("log-format", "", "log format: console, json (default: console)")

	root.AddCommand(newInitCmd(a))
	root.AddCommand(newReportCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newSaleCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the tables and load the seed data if the store is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seeded, err := a.db.Init()
			if err != nil {
				return err
			}
			seeded = seeded || a.db.Seeded()
			members, books, sales, err := a.db.Counts()
			if err != nil {
				return err
			}
			status := "already initialized"
			if seeded {
				status = "seed data loaded"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database %s (%s): %d members, %d books, %d sales\n",
				a.cfg.DB.Path, status, members, books, sales)
			return nil
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print every sale with member, book and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.mgr.SalesReport()
			if err != nil {
				return err
			}
			shell.RenderReport(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List members or books",
	}
	list.AddCommand(&cobra.Command{
		Use:   "members",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := a.mgr.GetAllMembers()
			if err != nil {
				return err
			}
			shell.RenderMembers(cmd.OutOrStdout(), members)
			return nil
		},
	})
	list.AddCommand(&cobra.Command{
		Use:   "books",
		Short: "List books with price and stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.mgr.GetAllBooks()
			if err != nil {
				return err
			}
			shell.RenderBooks(cmd.OutOrStdout(), books)
			return nil
		},
	})
	return list
}

func newSaleCmd(a *app) *cobra.Command {
	sale := &cobra.Command{
		Use:   "sale",
		Short: "Add, edit or delete sales",
	}

	var date, member, book, qty, discount string
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a sale and decrement the book's stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			receipt, err := a.mgr.CreateSale(date, member, book, qty, discount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sale #%d recorded: total %d, %s stock left %d\n",
				receipt.Sale.ID, receipt.Sale.Total, receipt.Sale.BookID, receipt.RemainingStock)
			return nil
		},
	}
	add.Flags().StringVar(&date, "date", "", "sale date, YYYY-MM-DD")
	add.Flags().StringVar(&member, "member", "", "member ID")
	add.Flags().StringVar(&book, "book", "", "book ID")
	add.Flags().StringVar(&qty, "qty", "", "quantity")
	add.Flags().StringVar(&discount, "discount", "0", "discount amount")
	for _, name := range []string{"date", "member", "book", "qty"} {
		_ = add.MarkFlagRequired(name)
	}

	var newDiscount string
	edit := &cobra.Command{
		Use:   "edit <sale-id>",
		Short: "Change a sale's discount and recompute its total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, after, err := a.mgr.EditSaleDiscount(args[0], newDiscount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sale #%d updated: total %d -> %d\n", after.ID, before.Total, after.Total)
			return nil
		},
	}
	edit.Flags().StringVar(&newDiscount, "discount", "", "new discount amount")
	_ = edit.MarkFlagRequired("discount")

	del := &cobra.Command{
		Use:   "delete <sale-id>",
		Short: "Delete a sale (stock is not restored)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.mgr.DeleteSale(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sale #%d deleted.\n", s.ID)
			return nil
		},
	}

	sale.AddCommand(add, edit, del)
	return sale
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bookstore v%s\n", version)
		},
	}
}
