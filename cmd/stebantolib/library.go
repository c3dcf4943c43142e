// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeinab-rezaei/stebantolib/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect the index of converted records",
	Long: `Library lists the records indexed during previous convert runs with
--library. The index keeps accession, compound identity, classification
source, and the path of the written file.`,
	RunE: runLibrary,
}

func runLibrary(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")

	store, err := library.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No records indexed.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-26s  %-30s  %-12s  %5s\n", "Accession", "Compound", "Classified", "Peaks")
	for _, e := range entries {
		name := e.CompoundName
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		source := e.ClassificationSource
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(os.Stdout, "%-26s  %-30s  %-12s  %5d\n", e.Accession, name, source, e.PeakCount)
	}
	fmt.Fprintf(os.Stdout, "\n%d record(s)\n", len(entries))
	return nil
}

func init() {
	libraryCmd.Flags().String("db", "library.db", "record index database")
	libraryCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(libraryCmd)
}
