package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"synapse/internal/diag"
	"synapse/internal/diagfmt"
	"synapse/internal/source"
)

type outputOptions struct {
	format         string
	maxDiagnostics int
	baseDir        string
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	flags := cmd.Root().PersistentFlags()
	format, err := flags.GetString("format")
	if err != nil {
		return outputOptions{}, fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return outputOptions{}, fmt.Errorf("unknown format %q (must be pretty or json)", format)
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return outputOptions{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	wd, _ := os.Getwd()
	return outputOptions{format: format, maxDiagnostics: maxDiagnostics, baseDir: wd}, nil
}

// faultDiagnostic moves a strict-mode fault into bag so it is printed like
// any other diagnostic. Other errors are returned unchanged.
func faultDiagnostic(bag *diag.Bag, err error) error {
	var fault *diag.Fault
	if !errors.As(err, &fault) {
		return err
	}
	bag.Add(diag.NewError(fault.Code, fault.Span, fault.Message))
	return nil
}

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts outputOptions) error {
	if opts.format == "json" {
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			BaseDir:          opts.baseDir,
			Max:              opts.maxDiagnostics,
		})
	}
	if bag.Len() == 0 {
		return nil
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		BaseDir:   opts.baseDir,
		ShowNotes: true,
	})
	return nil
}

func errorCount(bag *diag.Bag) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}
