// Command reset_store deletes the bookstore database and rebuilds it with the
// seed members, books and sales.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookstore-manager/bookstore"
	"bookstore-manager/internal/config"
	"bookstore-manager/shell"
)

func main() {
	var configFile string

	cmd := &cobra.Command{
		Use:           "reset_store",
		Short:         "Delete the database and reload the seed data",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return reset(cfg.DB.Path)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file (default: ./bookstore.yaml)")
	cmd.Flags().String("db", "", "database path (default: bookstore.db)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func reset(path string) error {
	// Clean up any existing database files
	fmt.Println("Cleaning up existing database files...")
	for _, file := range []string{path, path + "-shm", path + "-wal"} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", file, err)
		}
	}

	db, err := bookstore.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	defer db.Close()

	members, books, sales, err := db.Counts()
	if err != nil {
		return err
	}
	fmt.Printf("Database %s rebuilt: %d members, %d books, %d sales\n\n", path, members, books, sales)

	inventory, err := db.GetAllBooks()
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}
	shell.RenderBooks(os.Stdout, inventory)
	return nil
}
