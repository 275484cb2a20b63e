package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runbookd/urimod/packages/audit"
	"github.com/runbookd/urimod/packages/host"
	"github.com/runbookd/urimod/packages/module"
	"github.com/runbookd/urimod/packages/params"
)

var runCmd = &cobra.Command{
	Use:   "run [params-file]",
	Short: "Execute one HTTP exchange from a parameter document",
	Long: `Execute one HTTP exchange described by a JSON or YAML parameter
document and write the result record to stdout. With no argument, or with
"-", the document is read from stdin.

Examples:
  urimod run request.json
  urimod run request.yaml --pretty
  echo '{"url": "https://example.com"}' | urimod run
  urimod run request.json --record audit.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCommand,
}

var (
	prettyFlag bool
	recordFlag string
)

func init() {
	runCmd.Flags().BoolVar(&prettyFlag, "pretty", false, "Indent the output JSON")
	runCmd.Flags().StringVar(&recordFlag, "record", getEnvString("URIMOD_RECORD", ""), "Append the invocation to a SQLite audit trail (env: URIMOD_RECORD)")
}

// Environment variable helper
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func runCommand(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	spec, err := loadSpec(path)
	if err != nil {
		return failWith(cmd, err)
	}

	executor := module.NewExecutor()
	result, runErr := executor.Run(context.Background(), spec)

	if recordFlag != "" {
		recordInvocation(spec, result, runErr)
	}

	if runErr != nil {
		return failWith(cmd, runErr)
	}

	return host.WriteResult(cmd.OutOrStdout(), result, prettyFlag)
}

// loadSpec reads a parameter document, normalizes it to JSON, checks it
// against the option schema and decodes it.
func loadSpec(path string) (*params.Spec, error) {
	doc, err := host.ReadDocument(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read parameter document: %w", err)
	}

	normalized, err := host.ToJSON(doc)
	if err != nil {
		return nil, err
	}

	if err := params.ValidateDocument(normalized); err != nil {
		return nil, err
	}

	return params.Decode(normalized)
}

// failWith writes the failure envelope and exits with the code for the
// error kind. Errors are part of the host exchange, not CLI noise.
func failWith(cmd *cobra.Command, err error) error {
	_ = host.WriteFailure(cmd.OutOrStdout(), err, prettyFlag)
	os.Exit(exitCodeFor(err))
	return nil
}

func exitCodeFor(err error) int {
	var configErr *params.ConfigError
	var transportErr *module.TransportError
	var remoteErr *module.RemoteError

	switch {
	case errors.As(err, &configErr):
		return ExitConfigError
	case errors.As(err, &transportErr):
		return ExitNetworkError
	case errors.As(err, &remoteErr):
		return ExitRemoteError
	}
	return ExitParseError
}

func recordInvocation(spec *params.Spec, result *module.Result, runErr error) {
	recorder, err := audit.Open(recordFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	defer recorder.Close()

	if err := recorder.Record(audit.EntryFor(spec, result, runErr)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}
