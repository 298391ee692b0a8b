package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/gdpplot/internal/cli/output"
	"github.com/leapstack-labs/gdpplot/pkg/core"
	"github.com/spf13/cobra"
)

// ErrHistoryDisabled is returned by history commands when history.enabled is false.
var ErrHistoryDisabled = errors.New("run history is disabled (set history.enabled: true in gdpplot.yaml)")

// RunInfo is the JSON form of a recorded run.
type RunInfo struct {
	ID          string     `json:"id"`
	Command     string     `json:"command"`
	SourcePath  string     `json:"source_path"`
	Countries   []string   `json:"countries"`
	MinYear     int        `json:"min_year"`
	MaxYear     int        `json:"max_year"`
	Status      string     `json:"status"`
	Points      int        `json:"points"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationMS  int64      `json:"duration_ms"`
}

func runInfo(run *core.Run) RunInfo {
	return RunInfo{
		ID:          run.ID,
		Command:     run.Command,
		SourcePath:  run.SourcePath,
		Countries:   run.Countries,
		MinYear:     run.MinYear,
		MaxYear:     run.MaxYear,
		Status:      string(run.Status),
		Points:      run.Points,
		Error:       run.Error,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		DurationMS:  run.Duration().Milliseconds(),
	}
}

// NewHistoryCommand creates the history command and its show subcommand.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded builds",
		Long: `List the builds recorded by series, plot and examples, newest first.

History lives in the SQLite database at history.path.`,
		Example: `  gdpplot history
  gdpplot history --limit 5 -o json
  gdpplot history show 3f2a...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	cmd.AddCommand(newHistoryShowCommand())

	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded build",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, args[0])
		},
	}
}

func runHistory(cmd *cobra.Command, limit int) error {
	cc := NewCommandContext(cmd)
	if !cc.Cfg.History.Enabled {
		return ErrHistoryDisabled
	}
	if limit < 0 {
		return fmt.Errorf("--limit must be at least 0, got %d", limit)
	}

	store, err := openHistory(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		infos := make([]RunInfo, 0, len(runs))
		for _, run := range runs {
			infos = append(infos, runInfo(run))
		}
		return r.JSON(infos)
	}

	r.Header(1, fmt.Sprintf("Runs (%d)", len(runs)))
	if len(runs) == 0 {
		r.Println(r.Muted("no runs recorded"))
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Command,
			output.Title(string(run.Status)),
			strconv.Itoa(run.Points),
			strings.Join(run.Countries, ", "),
		})
	}
	r.Table([]string{"ID", "Started", "Command", "Status", "Points", "Countries"}, rows)
	return nil
}

func runHistoryShow(cmd *cobra.Command, id string) error {
	cc := NewCommandContext(cmd)
	if !cc.Cfg.History.Enabled {
		return ErrHistoryDisabled
	}

	store, err := openHistory(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run, err := store.GetRun(id)
	if err != nil {
		return err
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(runInfo(run))
	}

	r.Header(1, "Run "+run.ID)
	r.Println(output.FormatKeyValue("Command", run.Command))
	r.Println(output.FormatKeyValue("Status", output.Title(string(run.Status))))
	r.Println(output.FormatKeyValue("Source", run.SourcePath))
	r.Println(output.FormatKeyValue("Countries", strings.Join(run.Countries, ", ")))
	r.Println(output.FormatKeyValue("Years", fmt.Sprintf("%d-%d", run.MinYear, run.MaxYear)))
	r.Println(output.FormatKeyValue("Points", strconv.Itoa(run.Points)))
	r.Println(output.FormatKeyValue("Started", run.StartedAt.Local().Format(time.RFC3339)))
	if run.CompletedAt != nil {
		r.Println(output.FormatKeyValue("Duration", run.Duration().String()))
	}
	if run.Error != "" {
		r.Println(output.FormatKeyValue("Error", run.Error))
	}
	return nil
}
