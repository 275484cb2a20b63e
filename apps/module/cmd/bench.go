package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/runbookd/urimod/packages/bench"
)

var benchCmd = &cobra.Command{
	Use:   "bench <params-file>",
	Short: "Repeat one exchange and summarize latencies",
	Long: `Repeat the exchange described by a parameter document sequentially
at a bounded rate and print a latency summary. Every iteration is an
independent invocation.

Examples:
  urimod bench request.json
  urimod bench request.json -n 200 -r 20`,
	Args: cobra.ExactArgs(1),
	RunE: benchCommand,
}

var (
	benchCountFlag   int
	benchRateFlag    float64
	benchNoColorFlag bool
)

func init() {
	benchCmd.Flags().IntVarP(&benchCountFlag, "count", "n", 50, "Number of iterations")
	benchCmd.Flags().Float64VarP(&benchRateFlag, "rate", "r", 10, "Target requests per second (0 for unpaced)")
	benchCmd.Flags().BoolVar(&benchNoColorFlag, "no-color", false, "Disable colored output")
}

func benchCommand(cmd *cobra.Command, args []string) error {
	if benchNoColorFlag {
		color.NoColor = true
	}

	spec, err := loadSpec(args[0])
	if err != nil {
		return err
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	summary, err := bench.Run(context.Background(), spec, bench.Options{
		Count: benchCountFlag,
		Rate:  benchRateFlag,
	})
	if err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s %s %s\n\n", bold(spec.Method), spec.URL, bold(fmt.Sprintf("(%d requests)", summary.Count)))

	errLine := fmt.Sprintf("%d", summary.Errors)
	if summary.Errors > 0 {
		errLine = red(errLine)
	}
	fmt.Fprintf(out, "  errors:     %s\n", errLine)
	fmt.Fprintf(out, "  min:        %v\n", summary.Min)
	fmt.Fprintf(out, "  mean:       %v\n", summary.Mean)
	fmt.Fprintf(out, "  p50:        %v\n", summary.P50)
	fmt.Fprintf(out, "  p95:        %v\n", summary.P95)
	fmt.Fprintf(out, "  p99:        %v\n", summary.P99)
	fmt.Fprintf(out, "  max:        %v\n", summary.Max)
	fmt.Fprintf(out, "  duration:   %v\n", summary.Duration.Round(time.Millisecond))
	if summary.Duration > 0 {
		fmt.Fprintf(out, "  throughput: %.1f req/s\n", float64(summary.Count)/summary.Duration.Seconds())
	}

	return nil
}
