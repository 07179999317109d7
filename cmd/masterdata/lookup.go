// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/masterdata/internal/lookup"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Index converted databases in SQLite and fetch records by key",
	Long: `Lookup manages a local SQLite index built from the converted JSON databases.
Use subcommands to index the database directory, list keys, or fetch one record.`,
}

// --- index subcommand ---

var lookupIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index every JSON database in the database directory",
	Long: `Index loads each *.json file in lookup.database_dir into lookup.db.
Files unchanged since the previous run are skipped.`,
	RunE: runLookupIndex,
}

func runLookupIndex(cmd *cobra.Command, args []string) error {
	store, err := openLookupStore()
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d database(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- get subcommand ---

var lookupGetCmd = &cobra.Command{
	Use:   "get <database> <key>",
	Short: "Print the record stored under key",
	Args:  cobra.ExactArgs(2),
	RunE:  runLookupGet,
}

func runLookupGet(cmd *cobra.Command, args []string) error {
	store, err := openLookupStore()
	if err != nil {
		return err
	}
	defer store.Close()

	raw, err := store.Get(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("formatting record: %w", err)
	}
	fmt.Println(out.String())
	return nil
}

// --- keys subcommand ---

var lookupKeysCmd = &cobra.Command{
	Use:   "keys [database]",
	Short: "List the keys of a database, or the indexed databases",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLookupKeys,
}

func runLookupKeys(cmd *cobra.Command, args []string) error {
	store, err := openLookupStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		dbs, err := store.Databases(context.Background())
		if err != nil {
			return err
		}
		if len(dbs) == 0 {
			fmt.Println("No databases indexed.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-8s  %s\n", "Database", "Entries", "Source")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
		for _, d := range dbs {
			fmt.Fprintf(os.Stdout, "%-24s  %-8d  %s\n", d.Name, d.Entries, d.SourcePath)
		}
		return nil
	}

	keys, err := store.Keys(context.Background(), args[0])
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	fmt.Fprintf(os.Stdout, "\n%d keys\n", len(keys))
	return nil
}

// --- shared helpers ---

func openLookupStore() (*lookup.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return lookup.NewStore(cfg.Lookup)
}

func init() {
	lookupCmd.PersistentFlags().String("database-dir", "database", "directory holding converted JSON databases")
	lookupCmd.PersistentFlags().String("index-dir", "database/index", "directory for lookup.db")
	viper.BindPFlag("lookup.database_dir", lookupCmd.PersistentFlags().Lookup("database-dir"))
	viper.BindPFlag("lookup.index_dir", lookupCmd.PersistentFlags().Lookup("index-dir"))

	lookupCmd.AddCommand(lookupIndexCmd)
	lookupCmd.AddCommand(lookupGetCmd)
	lookupCmd.AddCommand(lookupKeysCmd)

	rootCmd.AddCommand(lookupCmd)
}
