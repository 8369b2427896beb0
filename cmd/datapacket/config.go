package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pdiddy/datapacket/pkg/types"
)

// scalarDefaults registers the scalar keys so environment variables such
// as DATAPACKET_TRACKER_DB_PATH are seen by Unmarshal.
func scalarDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("act.pdf", d.ACT.PDF)
	v.SetDefault("act.backend", string(d.ACT.Backend))
	v.SetDefault("act.across_pages", d.ACT.AcrossPages)
	v.SetDefault("naep.sheet_filter", d.NAEP.SheetFilter)
	v.SetDefault("tracker.db_path", d.Tracker.DBPath)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// loadConfig overlays the settings in v onto types.DefaultConfig. A
// configured act.pages list replaces the default regions entirely.
func loadConfig(v *viper.Viper) (types.Config, error) {
	c := types.DefaultConfig()
	scalarDefaults(v, c)
	if v.IsSet("act.pages") {
		c.ACT.Pages = nil
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding configuration: %w", err)
	}
	if c.DataDir == "" {
		c.DataDir = types.DefaultConfig().DataDir
	}
	return c, nil
}

// dataPath resolves a configured file name: paths that exist as given are
// used directly, others are looked up in the data directory.
func dataPath(c types.Config, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
