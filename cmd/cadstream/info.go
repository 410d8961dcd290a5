package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notashes/cadstream/internal/cad"
	"github.com/notashes/cadstream/internal/config"
	"github.com/notashes/cadstream/internal/engine"
	"github.com/notashes/cadstream/internal/parse"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display information about a mesh file",
	Long:  "Parse and validate one file, then print its triangle count, bounding box, dimensions, and any validation warnings.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	cfg.Resolve(config.Flags{})

	eng := engine.New(
		engine.DefaultRegistry(),
		parse.Limits{MaxFileBytes: cfg.MaxFileBytes, MaxTriangles: cfg.MaxTriangles},
		parse.Options{AllowTruncated: cfg.AllowTruncated},
	)

	mesh, err := eng.ParseFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", args[0], err)
		os.Exit(1)
	}

	size := mesh.Size()

	fmt.Println("Mesh File Information")
	fmt.Println("=====================")
	fmt.Printf("Name: %s\n", mesh.Name)
	fmt.Printf("Format: %s\n", mesh.Format)
	fmt.Printf("File size: %d bytes\n\n", mesh.SourceBytes)

	fmt.Println("Model Statistics:")
	fmt.Printf("  Triangles: %d\n\n", mesh.TriangleCount())

	fmt.Println("Bounding Box:")
	if mesh.Bounds.IsEmpty() {
		fmt.Println("  (empty)")
	} else {
		fmt.Printf("  Min: %s\n", fmtPoint(mesh.Bounds.Min))
		fmt.Printf("  Max: %s\n", fmtPoint(mesh.Bounds.Max))
		fmt.Printf("  Center: %s\n\n", fmtPoint(mesh.Center()))

		fmt.Println("Dimensions:")
		fmt.Printf("  Width (X): %.6f units\n", size[0])
		fmt.Printf("  Depth (Y): %.6f units\n", size[1])
		fmt.Printf("  Height (Z): %.6f units\n", size[2])
	}

	if len(mesh.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(mesh.Warnings))
		for _, w := range mesh.Warnings {
			fmt.Printf("  triangle %d: %s\n", w.Index, w.Kind)
		}
	}
}

func fmtPoint(v cad.Vec3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v[0], v[1], v[2])
}
