// cmd/planboard/main.go
//
// Entry point for the planboard CLI. The root command launches the planning
// grid TUI; subcommands cover project setup, fixture loading and the
// non-interactive reports.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tmarchal/planboard/internal/calendar"
	"github.com/tmarchal/planboard/internal/config"
	"github.com/tmarchal/planboard/internal/journal"
	"github.com/tmarchal/planboard/internal/logging"
	"github.com/tmarchal/planboard/internal/plan/conflict"
	"github.com/tmarchal/planboard/internal/plan/timeline"
	"github.com/tmarchal/planboard/internal/store"
	"github.com/tmarchal/planboard/internal/tui"
)

var (
	// Used for flags.
	fromDate    string
	granularity string

	rootCmd = &cobra.Command{
		Use:   "planboard",
		Short: "A resource planning grid for teams: tasks, leaves, telework and holidays.",
		Long: `Planboard derives a per-user-per-day occupancy grid from the team's tasks,
leave requests, telework declarations and holidays, and lets you move tasks
between users and days interactively.`,
		RunE: runGrid,
	}

	gridCmd = &cobra.Command{
		Use:   "grid",
		Short: "Launch the interactive planning grid (default).",
		RunE:  runGrid,
	}

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create the .planboard directory and a default config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			if err := config.InitPlanboardDir(cwd); err != nil {
				return err
			}
			fmt.Printf("Initialized %s\n", filepath.Join(cwd, config.PlanboardDir))
			return nil
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load users, tasks, leaves, telework and holidays from a yaml fixture.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openProject()
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Seed(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Seeded from %s\n", args[0])
			return nil
		},
	}

	conflictsCmd = &cobra.Command{
		Use:   "conflicts",
		Short: "List tasks scheduled to start before a dependency ends.",
		RunE:  runConflicts,
	}

	timelineCmd = &cobra.Command{
		Use:   "timeline",
		Short: "Print the timeline column layout and task bars for a window.",
		RunE:  runTimeline,
	}
)

func init() {
	conflictsCmd.Flags().StringVar(&fromDate, "from", "", "start of the window to inspect (2006-01-02, default today)")
	timelineCmd.Flags().StringVar(&fromDate, "from", "", "center day of the window (2006-01-02, default today)")
	timelineCmd.Flags().StringVar(&granularity, "granularity", "", "day, week or month (default from config)")
	rootCmd.AddCommand(gridCmd, initCmd, seedCmd, conflictsCmd, timelineCmd)
}

// openProject loads the config for the working directory and opens the store.
func openProject() (*config.Config, *store.SQLite, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	if err := config.InitPlanboardDir(cwd); err != nil {
		return nil, nil, err
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

func parseFromDay() (calendar.Day, error) {
	if fromDate == "" {
		return calendar.Today(), nil
	}
	return calendar.Parse(fromDate)
}

func runGrid(cmd *cobra.Command, args []string) error {
	cfg, st, err := openProject()
	if err != nil {
		return err
	}
	defer st.Close()

	logger, err := logging.New(cfg.ProjectDir)
	if err != nil {
		return err
	}
	defer logger.Close()

	book, err := journal.New(filepath.Join(cfg.LogsDir(), "actions.log"))
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		tui.NewApp(cfg, st, logger, book),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func runConflicts(cmd *cobra.Command, args []string) error {
	_, st, err := openProject()
	if err != nil {
		return err
	}
	defer st.Close()

	start, err := parseFromDay()
	if err != nil {
		return err
	}
	window := store.Range{Start: start.AddDays(-90), End: start.AddDays(180)}
	tasks, err := st.ListTasks(context.Background(), window)
	if err != nil {
		return err
	}
	conflicts := conflict.DetectAll(tasks)
	if len(conflicts) == 0 {
		fmt.Println("No dependency conflicts.")
		return nil
	}
	for _, c := range conflicts {
		fmt.Println(c.String())
	}
	fmt.Printf("%d conflict(s)\n", len(conflicts))
	return nil
}

func runTimeline(cmd *cobra.Command, args []string) error {
	cfg, st, err := openProject()
	if err != nil {
		return err
	}
	defer st.Close()

	center, err := parseFromDay()
	if err != nil {
		return err
	}
	gran := granularity
	if gran == "" {
		gran = cfg.TimelineGranularity()
	}
	window := timeline.NewWindow(center, timeline.ParseGranularity(gran))

	fmt.Printf("%s .. %s (%s)\n", window.Start, window.End, window.Gran)
	for _, col := range window.Columns() {
		fmt.Printf("  %-10s %s .. %s  %5.2f%%\n", col.Label, col.Start, col.End, col.WidthPct)
	}

	tasks, err := st.ListTasks(context.Background(), store.Range{Start: window.Start, End: window.End})
	if err != nil {
		return err
	}
	for _, t := range tasks {
		bar, ok := window.Project(t.Start, t.End)
		if !ok {
			continue
		}
		fmt.Printf("  %-30q left=%5.2f%% width=%5.2f%%\n", t.Title, bar.LeftPct, bar.WidthPct)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
