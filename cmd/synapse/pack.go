package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"synapse/internal/driver"
)

var packCmd = &cobra.Command{
	Use:   "pack [flags] <file.bind.toml>...",
	Short: "Encode binding manifests into one binary container",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPack,
}

func init() {
	packCmd.Flags().StringP("output", "o", "", "output file (default: first manifest with .sbb extension)")
}

func runPack(cmd *cobra.Command, args []string) error {
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	target, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if target == "" {
		target = strings.TrimSuffix(strings.TrimSuffix(args[0], ".toml"), ".bind") + ".sbb"
	}

	res, err := driver.Pack(cmd.Context(), args, target, out.maxDiagnostics)
	if err != nil {
		return err
	}
	if err := printDiagnostics(os.Stderr, res.Bag, res.FileSet, out); err != nil {
		return err
	}
	if n := errorCount(res.Bag); n > 0 {
		return fmt.Errorf("nothing written: %d error(s)", n)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "packed %d binding(s) into %s\n", len(res.Library.Bindings()), target)
	return nil
}
