package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notashes/cadstream/internal/parse"
	"github.com/notashes/cadstream/internal/stl"
)

var demoBinary bool

var mkdemoCmd = &cobra.Command{
	Use:   "mkdemo [path]",
	Short: "Write a small demonstration STL file",
	Args:  cobra.MaximumNArgs(1),
	Run:   runMkdemo,
}

func init() {
	mkdemoCmd.Flags().BoolVar(&demoBinary, "binary", false, "write the compact binary representation")
	rootCmd.AddCommand(mkdemoCmd)
}

func runMkdemo(cmd *cobra.Command, args []string) {
	path := "demo_cube.stl"
	if len(args) > 0 {
		path = args[0]
	}

	format := parse.StlASCII
	if demoBinary {
		format = parse.StlBinary
	}

	if err := stl.WriteDemoFile(path, format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created %s (%s)\n", path, format)
}
