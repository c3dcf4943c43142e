// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.yaml.in/yaml/v3"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Resolve the classification for a single compound",
	Long: `Classify looks up the chemical classification for one compound,
identified by InChIKey, SMILES, or both. It uses the same resolution
chain and cache as convert: ClassyFire by InChIKey first, then
ClassyFire by SMILES, then NPClassifier.`,
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	inchikey, _ := cmd.Flags().GetString("inchikey")
	smiles, _ := cmd.Flags().GetString("smiles")
	if inchikey == "" && smiles == "" {
		return fmt.Errorf("--inchikey or --smiles is required")
	}

	resolver := buildResolver(cmd)

	cls := resolver.Resolve(context.Background(), inchikey, smiles)
	if cls == nil {
		fmt.Fprintln(os.Stdout, "No classification found.")
		return nil
	}

	out, err := yaml.Marshal(cls)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, string(out))
	return nil
}

func init() {
	classifyCmd.Flags().String("inchikey", "", "InChIKey of the compound")
	classifyCmd.Flags().String("smiles", "", "SMILES of the compound")
	classifyFlags(classifyCmd)

	rootCmd.AddCommand(classifyCmd)
}
