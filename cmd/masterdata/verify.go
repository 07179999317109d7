// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/masterdata/internal/convert"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [databases...]",
	Short: "Load converted JSON databases and report their entry counts",
	Long: `Verify loads each converted database the way the simulator does: the top
level must be an object whose values are objects. With no arguments it checks the
outputs of every configured table.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		for _, db := range cfg.Convert.Databases {
			paths = append(paths, db.Output)
		}
	}

	failed := 0
	for _, p := range paths {
		doc, err := convert.Load(p)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %v\n", err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "loaded %d entries from %s\n", doc.Len(), p)
	}
	if failed > 0 {
		return fmt.Errorf("%d database(s) failed to load", failed)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
