package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notashes/cadstream/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cadstream",
	Short: "Ingest, validate, and stream triangle-mesh files",
	Long: "cadstream parses STL files (textual and binary) into validated in-memory\n" +
		"models and can watch a directory, streaming each parsed mesh to connected\n" +
		"viewer clients as JSON lines over TCP.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config.json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the --config file when given; missing flags resolve to
// defaults later.
func loadConfig() config.Config {
	var cfg config.Config
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	return cfg
}
