// Command eqingest loads provider race documents into the staging schema.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"eqingest/internal/config"
	_ "eqingest/internal/storage/all"
)

var (
	// Version is set at build time
	Version = "dev"

	flagDriver  string
	flagDSN     string
	flagSchema  string
	flagTrack   string
	flagDate    string
	flagLimit   int
	flagVerbose bool

	rootCmd = &cobra.Command{
		Use:   "eqingest",
		Short: "Ingest race charts and past performance files into staging tables",
		Long: `eqingest parses provider XML documents (result charts and past
performance files), normalizes them into relational staging rows, and upserts
them into a destination database keyed on natural keys. Re-running over the
same files is safe: identical rows are overwritten in place.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDriver, "driver", "", "storage backend: postgres, sqlite, or mysql (default from DB_DRIVER)")
	pf.StringVar(&flagDSN, "dsn", "", "database connection string (default from DATABASE_URL)")
	pf.StringVar(&flagSchema, "schema", "", "destination schema name (default from DB_SCHEMA)")
	pf.StringVar(&flagTrack, "track", "", "track code override, beats filename and document values")
	pf.StringVar(&flagDate, "date", "", "race date override (YYYY-MM-DD), beats filename and document values")
	pf.IntVar(&flagLimit, "limit", 0, "process at most N files per directory (0 = no limit)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

// resolve overlays CLI flags onto the environment configuration.
func resolve() *config.Config {
	cfg := config.Load()
	if flagDriver != "" {
		cfg.Driver = flagDriver
	}
	if flagDSN != "" {
		cfg.DatabaseURL = flagDSN
	}
	if flagSchema != "" {
		cfg.Schema = flagSchema
	}
	if flagVerbose {
		cfg.Debug = true
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
