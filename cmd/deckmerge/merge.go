// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"deckmerge/internal/config"
	"deckmerge/internal/issue"
	"deckmerge/internal/merge"
	"deckmerge/internal/tui"
)

var (
	// outputFlag holds the --output value; empty means "use the config default".
	outputFlag string

	mergeCmd = &cobra.Command{
		Use:   "merge [presentations...]",
		Short: "Merge presentations into one output file",
		Long: `Merge the slides of the given .pptx files into a single output file,
in argument order. The first file provides the base layouts and theme.

Without arguments, deckmerge lists the presentations in the current
directory and asks for the order to merge them in.`,
		RunE: runMerge,
	}
)

func init() {
	mergeCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file (default from config, merged.pptx)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	inputs, err := resolveInputs(args, cfg)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	output := outputFlag
	if output == "" {
		output = cfg.Output
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "deckmerge"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := merge.Merge(merge.Options{Inputs: inputs, Output: output, Logger: logger}); err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Merged ")+fmt.Sprintf("%d presentations into %s", len(inputs), output))
	return nil
}

// resolveInputs turns the command arguments into the ordered input list.
// Explicit arguments are validated as-is; with no arguments the current
// directory is scanned and the user picks the order interactively.
func resolveInputs(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		for _, arg := range args {
			if err := validateInput(arg, cfg.ScanExt); err != nil {
				return nil, err
			}
		}
		return args, nil
	}

	candidates, err := discoverInputs(".", cfg.ScanExt)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("discover presentations").
			WithResource("current directory").
			WithSuggestion(fmt.Sprintf("Place the %s files to merge in the current directory", cfg.ScanExt)).
			WithSuggestion("Or pass the files as arguments: deckmerge merge a.pptx b.pptx").
			Wrap(fmt.Errorf("no %s files found", cfg.ScanExt)).
			BuildError()
	}
	if len(candidates) == 1 {
		return candidates, nil
	}

	order, err := promptOrder(candidates)
	if err != nil {
		return nil, err
	}
	inputs := make([]string, 0, len(order))
	for _, idx := range order {
		inputs = append(inputs, candidates[idx])
	}
	return inputs, nil
}

func validateInput(path string, scanExt string) error {
	info, err := os.Stat(path)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("validate input").
			WithResource(path).
			WithSuggestion("Check that the file path is spelled correctly").
			Wrap(err).
			BuildError()
	}
	if info.IsDir() {
		return issue.NewErrorContext().
			WithOperation("validate input").
			WithResource(path).
			WithSuggestion("Pass presentation files, not directories").
			Wrap(fmt.Errorf("%s is a directory", path)).
			BuildError()
	}
	if !strings.EqualFold(filepath.Ext(path), scanExt) {
		return issue.NewErrorContext().
			WithOperation("validate input").
			WithResource(path).
			WithSuggestion(fmt.Sprintf("Only %s files can be merged", scanExt)).
			Wrap(fmt.Errorf("unexpected file extension %q", filepath.Ext(path))).
			BuildError()
	}
	return nil
}

// discoverInputs lists the scanExt files directly inside dir, sorted by name.
func discoverInputs(dir string, scanExt string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	var found []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), scanExt) {
			found = append(found, e.Name())
		}
	}
	slices.Sort(found)
	return found, nil
}

// promptOrder asks the user for the merge order. On a terminal it runs the
// full-screen prompt; otherwise it falls back to reading stdin line by line,
// so piped invocations still work.
func promptOrder(items []string) ([]int, error) {
	const title = "Merge presentations in which order?"

	if stdinIsTerminal() {
		return tui.OrderPrompt(title, items)
	}

	fmt.Fprintln(os.Stderr, title)
	for i, item := range items {
		fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, item)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read order: %w", err)
			}
			return nil, tui.ErrCancelled
		}
		order, err := tui.ParseOrder(scanner.Text(), len(items))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		return order, nil
	}
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
