package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"synapse/internal/diagfmt"
	"synapse/internal/driver"
	"synapse/internal/ir"
	"synapse/internal/observ"
	"synapse/internal/source"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <script.syn>",
	Short: "Render a path script into graph-IR code",
	Long: `Render loads the binding manifests (from --bindings and synapse.toml),
parses the script and prints the rendered statements followed by any diagnostics`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringSliceP("bindings", "b", nil, "binding manifests (*.bind.toml), added to synapse.toml's list")
	renderCmd.Flags().Bool("strict", false, "stop at the first binding or render error")
	renderCmd.Flags().Bool("no-cache", false, "do not read or write the binding cache")
	renderCmd.Flags().String("indent", "", "prefix of every printed statement")
	renderCmd.Flags().Bool("timings", false, "report how long each phase took")
}

type renderPayload struct {
	Code        []string                  `json:"code"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	Timings     *observ.Report            `json:"timings,omitempty"`
}

// runRender executes "render": it merges synapse.toml with the flags,
// compiles the script and prints code and diagnostics. It returns an
// error when the script has error diagnostics.
func runRender(cmd *cobra.Command, args []string) error {
	script := args[0]
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}

	cfg, err := driver.LoadProjectConfig(filepath.Dir(script))
	if err != nil {
		return err
	}
	opts := driver.OptionsFromConfig(cfg)

	bindings, err := cmd.Flags().GetStringSlice("bindings")
	if err != nil {
		return fmt.Errorf("failed to get bindings flag: %w", err)
	}
	opts.Bindings = append(opts.Bindings, bindings...)
	if cmd.Flags().Changed("strict") {
		if opts.Strict, err = cmd.Flags().GetBool("strict"); err != nil {
			return fmt.Errorf("failed to get strict flag: %w", err)
		}
	}
	if cmd.Root().PersistentFlags().Changed("max-diagnostics") || cfg.Root == "" {
		opts.MaxDiagnostics = out.maxDiagnostics
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if cfg.Cache.Enabled && !noCache {
		if opts.Cache, err = driver.OpenDiskCache(cfg.Cache.Dir, "synapse"); err != nil {
			return fmt.Errorf("failed to open binding cache: %w", err)
		}
	}
	indent, err := cmd.Flags().GetString("indent")
	if err != nil {
		return fmt.Errorf("failed to get indent flag: %w", err)
	}
	if opts.Timings, err = cmd.Flags().GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	fs := source.NewFileSet()
	id, err := fs.Load(script)
	if err != nil {
		return fmt.Errorf("failed to read script %s: %w", script, err)
	}
	res, err := driver.CompileFile(cmd.Context(), fs, fs.Get(id), opts)
	if res == nil {
		return err
	}
	if err = faultDiagnostic(res.Bag, err); err != nil {
		return err
	}

	if out.format == "json" {
		payload := renderPayload{
			Code: make([]string, len(res.Code)),
			Diagnostics: diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
				BaseDir:          out.baseDir,
				Max:              out.maxDiagnostics,
			}),
		}
		for i, stmt := range res.Code {
			payload.Code[i] = ir.Format(res.Network, stmt)
		}
		if opts.Timings {
			payload.Timings = &res.Timings
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
	} else {
		if err := ir.Dump(cmd.OutOrStdout(), res.Network, res.Code, ir.DumpOptions{Indent: indent}); err != nil {
			return err
		}
		if err := printDiagnostics(os.Stderr, res.Bag, res.FileSet, out); err != nil {
			return err
		}
		if opts.Timings {
			fmt.Fprint(os.Stderr, res.Timings.Summary())
		}
	}

	if n := errorCount(res.Bag); n > 0 {
		return fmt.Errorf("%s: %d error(s)", script, n)
	}
	return nil
}
