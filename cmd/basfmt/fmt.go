package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"basfmt/internal/config"
	"basfmt/internal/driver"
	"basfmt/internal/indent"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [path...]",
	Short: "Format PureBasic source files",
	Args:  cobra.ArbitraryArgs,
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "check if files are properly formatted")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fmtCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
	fmtCmd.Flags().Int("tab-size", 0, "spaces per indentation level (overrides basfmt.toml)")
	fmtCmd.Flags().Bool("use-tabs", false, "indent with tab characters instead of spaces")
	fmtCmd.Flags().Bool("no-cache", false, "bypass the format cache")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	tabSize, err := cmd.Flags().GetInt("tab-size")
	if err != nil {
		return err
	}
	useTabs, err := cmd.Flags().GetBool("use-tabs")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}

	if writeToStdout && check {
		return fmt.Errorf("fmt: --stdout cannot be used with --check")
	}
	if writeToStdout && outputFormat != "text" {
		return fmt.Errorf("fmt: --stdout is only supported with text output")
	}
	switch outputFormat {
	case "text", "json":
	default:
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	manifest, _, err := config.Load(".")
	if err != nil {
		return err
	}
	cfg := manifest.Config

	indentOpts := indent.Options{
		TabSize:      cfg.Format.TabSize,
		InsertSpaces: cfg.Format.InsertSpaces,
	}
	if tabSize > 0 {
		indentOpts.TabSize = tabSize
	}
	if cmd.Flags().Changed("use-tabs") {
		indentOpts.InsertSpaces = !useTabs
	}

	opts := driver.FormatOptions{
		Check:      check,
		Stdout:     writeToStdout,
		Indent:     indentOpts,
		Extensions: cfg.Files.Extensions,
		Jobs:       jobs,
		NoCache:    noCache,
	}

	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	useTUI := shouldUseTUI(mode) && outputFormat == "text" && !writeToStdout

	var formatResults []driver.FormatResult
	if useTUI {
		files, err := driver.Collect(cmd.Context(), args, cfg.Files.Extensions)
		if err != nil {
			return err
		}
		formatResults, err = runFmtWithUI(cmd.Context(), files, args, opts)
		if err != nil {
			return err
		}
	} else {
		formatResults, err = driver.FormatPaths(cmd.Context(), args, opts)
		if err != nil {
			return err
		}
	}

	var hasErrors bool
	var hasChanges bool

	switch outputFormat {
	case "text":
		if writeToStdout {
			renderFmtStdout(formatResults, &hasErrors)
			if hasErrors {
				return fmt.Errorf("fmt: failed to format some files")
			}
			return nil
		}
		renderFmtText(formatResults, check, quiet || useTUI, &hasErrors, &hasChanges)
	case "json":
		if err := renderFmtJSON(formatResults, check); err != nil {
			return err
		}
		for _, res := range formatResults {
			hasErrors = hasErrors || res.Err != nil
			hasChanges = hasChanges || res.Changed
		}
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && hasChanges {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

func renderFmtStdout(results []driver.FormatResult, hasErrors *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}

		_, _ = os.Stdout.Write(res.Formatted)
	}
}

func renderFmtText(results []driver.FormatResult, check, quiet bool, hasErrors, hasChanges *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}

		if check {
			if res.Changed {
				*hasChanges = true
				if !quiet {
					fmt.Fprintln(os.Stdout, res.Path)
				}
			}
			continue
		}

		if res.Changed {
			*hasChanges = true
			if !quiet {
				fmt.Fprintf(os.Stdout, "reformatted %s\n", res.Path)
			}
		}
	}
}

func renderFmtJSON(results []driver.FormatResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
