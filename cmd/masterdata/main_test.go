// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/masterdata/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestLoadConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "masterdata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
convert:
  key_field: CardSeriesId
  databases:
    - name: CardDatas
      input: masterdata/CardDatas.yaml
      output: database/CardDatas.json
    - name: RhythmGameSkills
      input: masterdata/RhythmGameSkills.yaml
      output: database/RhythmGameSkills.json
      key_field: Id
lookup:
  index_dir: tmp/index
`), 0o644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "CardSeriesId", cfg.Convert.KeyField)
	assert.Equal(t, types.DefaultIndent, cfg.Convert.Indent)
	require.Len(t, cfg.Convert.Databases, 2)
	assert.Equal(t, "CardDatas", cfg.Convert.Databases[0].Name)
	assert.Equal(t, "Id", cfg.Convert.KeyFieldFor(cfg.Convert.Databases[1]))
	assert.Equal(t, "CardSeriesId", cfg.Convert.KeyFieldFor(cfg.Convert.Databases[0]))
	assert.Equal(t, "tmp/index", cfg.Lookup.IndexDir)
	assert.Equal(t, types.DefaultDatabaseDir, cfg.Lookup.DatabaseDir)
}

func TestConvertCommandSingleFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	input := filepath.Join(dir, "Musics.yaml")
	output := filepath.Join(dir, "database", "Musics.json")
	require.NoError(t, os.WriteFile(input, []byte("- Id: 1\n  Name: A\n"), 0o644))

	rootCmd.SetArgs([]string{"convert", "--input", input, "--output", output})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"1\": {\n    \"Id\": 1,\n    \"Name\": \"A\"\n  }\n}\n", string(data))
}
