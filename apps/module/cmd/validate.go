package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <params-file>...",
	Short: "Validate parameter documents without executing them",
	Long: `Validate parameter documents against the option schema and the
cross-field rules, without any network I/O.

Examples:
  urimod validate request.json
  urimod validate requests/*.yaml
  urimod validate request.yaml --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	validateWatchFlag   bool
	validateNoColorFlag bool
)

func init() {
	validateCmd.Flags().BoolVarP(&validateWatchFlag, "watch", "w", false, "Watch files for changes and re-validate")
	validateCmd.Flags().BoolVar(&validateNoColorFlag, "no-color", false, "Disable colored output")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	if validateNoColorFlag {
		color.NoColor = true
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	validateAll := func() bool {
		ok := true
		for _, file := range args {
			if err := validateFile(file); err != nil {
				fmt.Fprintf(cmd.OutOrStderr(), "%s %s: %v\n", red("✗"), file, err)
				ok = false
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("✓"), file)
			}
		}
		return ok
	}

	ok := validateAll()

	if !validateWatchFlag {
		if !ok {
			os.Exit(ExitConfigError)
		}
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	watchedDirs := make(map[string]bool)
	for _, file := range args {
		abs, err := filepath.Abs(file)
		if err != nil {
			continue
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(cmd.OutOrStderr(), "failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}

			if event.Has(fsnotify.Write) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\n", event.Name)
					validateAll()
					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStderr(), "watcher error: %v\n", err)
		}
	}
}

func validateFile(path string) error {
	spec, err := loadSpec(path)
	if err != nil {
		return err
	}
	return spec.Validate()
}
