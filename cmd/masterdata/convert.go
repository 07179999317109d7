package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/masterdata/internal/convert"
	"github.com/pdiddy/masterdata/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert YAML master-data tables into keyed JSON databases",
	Long: `Convert reads each configured master-data table (a YAML sequence of records)
and writes a JSON object mapping each record's key field to the record. Records
without the key field are skipped with a warning. Dates and timestamps are written
as ISO-8601 strings.

Key values become object keys as text: integers in decimal, floats always with a
fraction or exponent (1.0, 1e+21), booleans as true/false and null as null.
Dates and timestamps use their ISO-8601 form.

With --input, converts a single file; otherwise converts every table listed under
convert.databases in the config file (default: masterdata/Musics.yaml).`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	if input != "" {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = types.DefaultOutput
		}
		cfg.Convert.Databases = []types.DatabaseSpec{{Name: input, Input: input, Output: output}}
	}

	batch := convert.ConvertBatch(cfg.Convert, os.Stdout)
	if batch.HasFailures() {
		return fmt.Errorf("%d table(s) failed conversion", batch.Failed)
	}
	return nil
}

func init() {
	convertCmd.Flags().String("input", "", "single YAML table to convert (overrides convert.databases)")
	convertCmd.Flags().String("output", "", "output JSON path for --input (default: "+types.DefaultOutput+")")
	convertCmd.Flags().String("key-field", types.DefaultKeyField, "record field used as the lookup key")
	viper.BindPFlag("convert.key_field", convertCmd.Flags().Lookup("key-field"))

	rootCmd.AddCommand(convertCmd)
}
