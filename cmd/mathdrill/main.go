// Package main provides the CLI entrypoint for mathdrill.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/mathdrill/internal/config"
	"github.com/verte-zerg/mathdrill/internal/drill"
	"github.com/verte-zerg/mathdrill/internal/generator"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/rank"
	"github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/statsui"
	"github.com/verte-zerg/mathdrill/internal/store"
)

const (
	defaultQuestions = 10
	defaultWindow    = 5
	plainPlotHeight  = 10
)

var (
	drillQuestions  int
	drillMin        int
	drillMax        int
	drillResultsDir string

	statsSince  string
	statsLast   int
	statsWindow int
	statsPlain  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mathdrill",
		Short:         "Timed mental arithmetic drill",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDrillCmd,
	}

	rootCmd.Flags().IntVar(&drillQuestions, "questions", defaultQuestions, "questions per session")
	rootCmd.Flags().IntVar(&drillMin, "min", generator.DefaultMin, "smallest operand")
	rootCmd.Flags().IntVar(&drillMax, "max", generator.DefaultMax, "largest operand")
	rootCmd.PersistentFlags().StringVar(&drillResultsDir, "results-dir", config.DefaultResultsDir(), "directory holding session result files (default is under the XDG data dir, not beside the binary)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "questions", &drillQuestions, fileCfg.Drill.Questions)
	applyIntConfig(cmd, "min", &drillMin, fileCfg.Drill.Min)
	applyIntConfig(cmd, "max", &drillMax, fileCfg.Drill.Max)
	applyStringConfig(cmd, "results-dir", &drillResultsDir, fileCfg.Drill.ResultsDir)

	cfg := model.Config{
		Questions:  drillQuestions,
		Min:        drillMin,
		Max:        drillMax,
		ResultsDir: drillResultsDir,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	st, err := store.Open(cfg.ResultsDir)
	if err != nil {
		return fmt.Errorf("failed to open results store: %w", err)
	}
	history, err := st.LoadAllTotalTimes()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	out := cmd.OutOrStdout()
	startedAt := time.Now()
	gen := generator.New(cfg.Min, cfg.Max)
	runner := drill.New(drill.NewConsole(cmd.InOrStdin(), out), gen)
	results, err := runner.Run(cfg.Questions)
	if err != nil {
		return fmt.Errorf("failed to run drill: %w", err)
	}

	totalTime := model.TotalTimeSec(results)
	totalErrors := model.TotalErrors(results)
	path, saveErr := st.Save(startedAt, results)

	if err := rank.PrintSummary(out, len(results), totalTime, totalErrors); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := rank.PrintStanding(out, rank.Compute(totalTime, history)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save results: %w", saveErr)
	}
	logErrf("Saved %s\n", path)
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultWindow, "moving average window for the time trend")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive viewer")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "results-dir", &drillResultsDir, fileCfg.Drill.ResultsDir)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsWindow < 0 {
		return fmt.Errorf("--window must be >= 0")
	}
	cfg := model.StatsConfig{
		Since:  sinceTime,
		Last:   statsLast,
		Window: statsWindow,
	}

	st, err := store.Open(drillResultsDir)
	if err != nil {
		return fmt.Errorf("failed to open results store: %w", err)
	}

	out := cmd.OutOrStdout()
	if statsPlain || !isTerminal(out) {
		return renderPlainStats(out, st, cfg)
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderSessionTable(w, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderOperationTable(w, report.Operations); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderPlotsWithSize(w, report.Sessions, cfg.Window, 0, plainPlotHeight, false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mathdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[drill]
# questions = %d          # Questions per session
# min = %d               # Smallest operand
# max = %d               # Largest operand
# Session files default to the XDG data dir rather than a results/
# folder beside the binary. Point this at such a folder to share history.
# results-dir = %q
`,
		defaultQuestions,
		generator.DefaultMin,
		generator.DefaultMax,
		config.DefaultResultsDir(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Questions <= 0 {
		return fmt.Errorf("--questions must be > 0")
	}
	if cfg.Min < 0 {
		return fmt.Errorf("--min must be >= 0")
	}
	if cfg.Min > cfg.Max {
		return fmt.Errorf("--min must be <= --max")
	}
	if cfg.Max > generator.MaxOperand {
		return fmt.Errorf("--max must be <= %d", generator.MaxOperand)
	}
	if strings.TrimSpace(cfg.ResultsDir) == "" {
		return fmt.Errorf("--results-dir must not be empty")
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
