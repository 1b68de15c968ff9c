package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/loomui/celbridge/bridge"
	"github.com/loomui/celbridge/guest"
	"github.com/loomui/celbridge/host"
	"github.com/loomui/celbridge/script"
)

var (
	runWasmFile     string
	runScenarioFile string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a lifecycle scenario against a WASM implementation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		scenarioPath := runScenarioFile
		if !filepath.IsAbs(scenarioPath) && cfg.ScenarioDir != "" {
			scenarioPath = filepath.Join(cfg.ScenarioDir, scenarioPath)
		}
		sc, err := script.LoadFile(scenarioPath)
		if err != nil {
			return err
		}

		g, err := loadGuest(ctx, runWasmFile)
		if err != nil {
			return err
		}
		defer g.Close(ctx)

		class, err := bridge.Define(g)
		if err != nil {
			return err
		}
		reg := host.NewRegistry()
		if err := reg.Define(sc.Tag, class); err != nil {
			return err
		}

		trace, err := script.NewRunner(reg, logger).Run(ctx, sc)
		printTrace(trace)
		return err
	},
}

func loadGuest(ctx context.Context, path string) (*guest.Guest, error) {
	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return guest.Load(ctx, wasmBytes, guest.Options{
		Logger:           logger,
		MemoryLimitPages: cfg.MemoryLimitPages,
	})
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

func printTrace(trace *script.Trace) {
	pretty := term.IsTerminal(int(os.Stdout.Fd()))

	fmt.Printf("Scenario: %s\n", trace.Scenario)
	for _, step := range trace.Steps {
		status := "ok"
		if len(step.Failures) > 0 {
			status = fmt.Sprintf("%d failure(s)", len(step.Failures))
		}
		if pretty {
			style := okStyle
			if len(step.Failures) > 0 {
				style = failStyle
			}
			status = style.Render(status)
		}
		fmt.Printf("  %2d  %-16s %-8s %s\n", step.Index, step.Op, step.Element, status)
		for _, ferr := range step.Failures {
			fmt.Printf("      - %v\n", ferr)
		}
	}
	fmt.Printf("%d step(s), %d lifecycle failure(s)\n", len(trace.Steps), trace.FailureCount())
}

func init() {
	runCmd.Flags().StringVar(&runWasmFile, "wasm", "", "path to the guest wasm module")
	runCmd.Flags().StringVar(&runScenarioFile, "scenario", "", "path to the scenario yaml")
	runCmd.MarkFlagRequired("wasm")
	runCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(runCmd)
}
