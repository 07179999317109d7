package types

// DatabaseSpec names one master-data table to convert.
type DatabaseSpec struct {
	// Name identifies the database (e.g. "Musics"). It is used in status
	// lines and as the lookup database name.
	Name string `json:"name" yaml:"name"`

	// Input is the path to the YAML master-data file (a sequence of records).
	Input string `json:"input" yaml:"input"`

	// Output is the path of the JSON database to write.
	Output string `json:"output" yaml:"output"`

	// KeyField overrides ConvertConfig.KeyField for this table.
	KeyField string `json:"key_field,omitempty" yaml:"key_field,omitempty"`
}

// ConvertConfig holds settings for the convert stage.
type ConvertConfig struct {
	// KeyField is the record field used as the lookup key (default "Id").
	KeyField string `json:"key_field" yaml:"key_field"`

	// Indent is the per-level JSON indentation (default two spaces).
	Indent string `json:"indent" yaml:"indent"`

	// Databases lists the tables converted by a batch run.
	Databases []DatabaseSpec `json:"databases" yaml:"databases"`
}

// LookupConfig holds settings for the SQLite lookup index.
type LookupConfig struct {
	// DatabaseDir is the directory holding converted JSON databases.
	DatabaseDir string `json:"database_dir" yaml:"database_dir"`

	// IndexDir is the directory for lookup.db.
	IndexDir string `json:"index_dir" yaml:"index_dir"`
}

// Config groups all stage configurations.
type Config struct {
	Convert ConvertConfig `json:"convert" yaml:"convert"`
	Lookup  LookupConfig  `json:"lookup" yaml:"lookup"`
}

// Compiled-in defaults used when no config file is present.
const (
	DefaultKeyField    = "Id"
	DefaultIndent      = "  "
	DefaultInput       = "masterdata/Musics.yaml"
	DefaultOutput      = "database/Musics.json"
	DefaultDatabaseDir = "database"
	DefaultIndexDir    = "database/index"
)

// DefaultConfig returns the configuration used when nothing overrides it:
// a single Musics conversion keyed by Id.
func DefaultConfig() Config {
	return Config{
		Convert: ConvertConfig{
			KeyField: DefaultKeyField,
			Indent:   DefaultIndent,
			Databases: []DatabaseSpec{
				{Name: "Musics", Input: DefaultInput, Output: DefaultOutput},
			},
		},
		Lookup: LookupConfig{
			DatabaseDir: DefaultDatabaseDir,
			IndexDir:    DefaultIndexDir,
		},
	}
}

// KeyFieldFor returns the key field for db, falling back to the stage default.
func (c ConvertConfig) KeyFieldFor(db DatabaseSpec) string {
	if db.KeyField != "" {
		return db.KeyField
	}
	if c.KeyField != "" {
		return c.KeyField
	}
	return DefaultKeyField
}
