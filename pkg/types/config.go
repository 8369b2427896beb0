package types

// TableRegion selects one table on one PDF page. Coordinates are PDF points
// measured from the top-left corner of the page, the convention used by
// tabula.
type TableRegion struct {
	// Page is the 1-based page number.
	Page int `json:"page" yaml:"page" mapstructure:"page"`

	// Area is the bounding box as [top, left, bottom, right].
	Area []float64 `json:"area" yaml:"area" mapstructure:"area"`

	// Columns lists the x positions of the column boundaries inside Area.
	Columns []float64 `json:"columns" yaml:"columns" mapstructure:"columns"`

	// Reassemble enables repair of labels split across physical rows.
	Reassemble bool `json:"reassemble" yaml:"reassemble" mapstructure:"reassemble"`
}

// ExtractBackend identifies the PDF table extraction tool.
type ExtractBackend string

const (
	BackendNative ExtractBackend = "native"
	BackendTabula ExtractBackend = "tabula"
)

// ACTConfig holds settings for the ACT score extraction stage.
type ACTConfig struct {
	// PDF is the path to the ACT scores-by-state PDF. Relative paths are
	// resolved against DataDir.
	PDF string `json:"pdf" yaml:"pdf" mapstructure:"pdf"`

	// Backend selects the extractor: native or tabula.
	Backend ExtractBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// AcrossPages concatenates the rows of all regions before reassembly,
	// for tables whose split labels cross a page break.
	AcrossPages bool `json:"across_pages" yaml:"across_pages" mapstructure:"across_pages"`

	// Pages lists the table regions to extract, in output order.
	Pages []TableRegion `json:"pages" yaml:"pages" mapstructure:"pages"`
}

// NAEPConfig holds settings for the NAEP spreadsheet stage.
type NAEPConfig struct {
	// SheetFilter selects sheets whose name contains it (e.g. "- 2024").
	SheetFilter string `json:"sheet_filter" yaml:"sheet_filter" mapstructure:"sheet_filter"`
}

// TrackerConfig holds settings for the data source tracker.
type TrackerConfig struct {
	// DBPath is the SQLite database file.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
}

// ServerConfig holds settings for the tracker web form.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":5000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all stage configurations.
type Config struct {
	// DataDir is the directory holding source PDFs and workbooks.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	ACT     ACTConfig     `json:"act" yaml:"act" mapstructure:"act"`
	NAEP    NAEPConfig    `json:"naep" yaml:"naep" mapstructure:"naep"`
	Tracker TrackerConfig `json:"tracker" yaml:"tracker" mapstructure:"tracker"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// ACTColumnBoundaries are the column boundaries of the 2024 ACT average
// scores by state table.
var ACTColumnBoundaries = []float64{130, 150, 280, 350, 450, 525, 770}

// DefaultConfig returns the settings for the 2024 data packet.
func DefaultConfig() Config {
	return Config{
		DataDir: "data",
		ACT: ACTConfig{
			PDF:     "2024-Average-ACT-Scores-by-State-Percent-Meeting-Benchmarks.pdf",
			Backend: BackendNative,
			Pages: []TableRegion{
				{Page: 1, Area: []float64{300, 20, 750, 888}, Columns: ACTColumnBoundaries},
				{Page: 2, Area: []float64{125, 20, 600, 888}, Columns: ACTColumnBoundaries, Reassemble: true},
			},
		},
		NAEP:    NAEPConfig{SheetFilter: "- 2024"},
		Tracker: TrackerConfig{DBPath: "data_sources.db"},
		Server:  ServerConfig{Addr: ":5000"},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}
