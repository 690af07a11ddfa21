package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abatilo/taskboard/internal/config"
	"github.com/abatilo/taskboard/internal/dashboard"
	tberrors "github.com/abatilo/taskboard/internal/errors"
	"github.com/abatilo/taskboard/internal/logger"
	"github.com/abatilo/taskboard/internal/normalize"
	"github.com/abatilo/taskboard/internal/output"
	"github.com/abatilo/taskboard/internal/source"
	"github.com/abatilo/taskboard/internal/storage"
	"github.com/abatilo/taskboard/internal/view"
)

//nolint:gochecknoglobals // CLI flags, config and formatter are package-level by design
var (
	jsonOutput bool
	configFile string
	envFile    string
	logLevel   string
	logJSON    bool

	cfg       *config.Config
	log       logger.Logger
	formatter output.Formatter
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskboard",
		Short: "A task dashboard over Notion databases",
		Long:  "taskboard - Group, filter and track tasks from three Notion databases.",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			formatter = output.New(jsonOutput)

			var err error
			cfg, err = config.Load(config.LoadOptions{ConfigFile: configFile, EnvFile: envFile})
			if err != nil {
				printError(err)
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-json") {
				cfg.Log.JSON = logJSON
			}
			log = logger.New(&logger.Config{
				Level:      logger.Level(cfg.Log.Level),
				Output:     os.Stderr,
				JSON:       cfg.Log.JSON,
				TimeFormat: "15:04:05",
			})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.StringVar(&configFile, "config", "", "Config file (default ./taskboard.yaml or ~/.config/taskboard/config.yaml)")
	flags.StringVar(&envFile, "env-file", "", "dotenv file (default ./.env)")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.BoolVar(&logJSON, "log-json", false, "Log in JSON format")

	rootCmd.AddCommand(
		listCmd(),
		boardCmd(),
		statsCmd(),
		showCmd(),
		exportCmd(),
		serveCmd(),
		watchCmd(),
		tuiCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	if formatter == nil {
		formatter = output.New(jsonOutput)
	}
	os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	os.Exit(1)
}

// viewFlags are the projection flags shared by list and board.
type viewFlags struct {
	filter string
	sort   string
	query  string
	from   string
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&v.filter, "filter", "f", "", "Filter (all, high, medium, low, completed)")
	cmd.Flags().StringVarP(&v.sort, "sort", "s", "", "Sort key (priority, date, status, title)")
	cmd.Flags().StringVarP(&v.query, "query", "q", "", "Search title, description, status and priority")
}

// registerFrom adds the offline --from flag.
func (v *viewFlags) registerFrom(cmd *cobra.Command) {
	cmd.Flags().StringVar(&v.from, "from", "", "Read tasks exported to this directory instead of the data source")
}

// load builds the state from the data source, or from an export directory
// when --from is set.
func (v *viewFlags) load(ctx context.Context) (view.State, error) {
	if v.from == "" {
		return loadState(ctx, v.state())
	}
	tasks, err := storage.NewStore(v.from).List()
	if err != nil {
		return view.State{}, err
	}
	s, _ := v.state().WithTasks(1, tasks)
	return s, nil
}

// state applies the flags over the configured defaults. Unknown values are
// kept, after a warning: they filter nothing and leave the order unchanged.
func (v *viewFlags) state() view.State {
	filterValue, sortValue := cfg.View.Filter, cfg.View.Sort
	if v.filter != "" {
		filterValue = v.filter
	}
	if v.sort != "" {
		sortValue = v.sort
	}

	filter, ok := view.ParseFilter(filterValue)
	if !ok {
		log.Warn(tberrors.InvalidFilterError{Value: filterValue, Valid: filterNames()}.Error())
	}
	sortKey, ok := view.ParseSortKey(sortValue)
	if !ok {
		log.Warn(tberrors.InvalidSortError{Value: sortValue, Valid: sortNames()}.Error())
	}
	return view.NewState(filter, sortKey).WithQuery(v.query)
}

func filterNames() []string {
	names := make([]string, 0, len(view.Filters()))
	for _, f := range view.Filters() {
		names = append(names, string(f))
	}
	return names
}

func sortNames() []string {
	names := make([]string, 0, len(view.SortKeys()))
	for _, k := range view.SortKeys() {
		names = append(names, string(k))
	}
	return names
}

// newFetcher reads the configured data source endpoint.
func newFetcher() source.Fetcher {
	return source.New(source.Options{
		URL:     cfg.Source.URL,
		Timeout: cfg.Source.Timeout,
		Retries: cfg.Source.Retries,
	})
}

func newRefresher(f source.Fetcher, n dashboard.Notifier) *dashboard.Refresher {
	return dashboard.NewRefresher(f, normalize.New(cfg.NormalizeOptions()), cfg.PartitionMap(), n, log)
}

// logNotifier reports refresh outcomes through the logger.
func logNotifier() dashboard.Notifier {
	return dashboard.NotifierFunc(func(n dashboard.Notification) {
		if n.Level == dashboard.LevelSuccess {
			log.Debug(n.Message)
		}
	})
}

// loadState runs one refresh against the data source and applies it to
// initial.
func loadState(ctx context.Context, initial view.State) (view.State, error) {
	r := newRefresher(newFetcher(), logNotifier())
	res := r.Refresh(ctx)
	if res.Err != nil {
		return view.State{}, res.Err
	}
	s, _ := r.Apply(initial, res)
	return s, nil
}

// listCmd implements 'taskboard list'.
func listCmd() *cobra.Command {
	var vf viewFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in view order",
		Run: func(cmd *cobra.Command, _ []string) {
			state, err := vf.load(cmd.Context())
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTaskList(state.View().Tasks))
		},
	}
	vf.register(cmd)
	vf.registerFrom(cmd)
	return cmd
}

// boardCmd implements 'taskboard board'.
func boardCmd() *cobra.Command {
	var vf viewFlags
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show tasks grouped by priority database",
		Run: func(cmd *cobra.Command, _ []string) {
			state, err := vf.load(cmd.Context())
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatBoard(state.View().Board))
		},
	}
	vf.register(cmd)
	vf.registerFrom(cmd)
	return cmd
}

// statsCmd implements 'taskboard stats'.
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts and completion progress",
		Run: func(cmd *cobra.Command, _ []string) {
			state, err := loadState(cmd.Context(), view.NewState(view.FilterAll, view.SortPriority))
			if err != nil {
				printError(err)
			}
			vm := state.View()
			printOutput(formatter.FormatStats(vm.Counts, vm.Progress))
		},
	}
}

// showCmd implements 'taskboard show'.
func showCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if from != "" {
				t, err := storage.NewStore(from).Load(args[0])
				if err != nil {
					printError(err)
				}
				printOutput(formatter.FormatTask(t))
				return
			}

			state, err := loadState(cmd.Context(), view.NewState(view.FilterAll, view.SortPriority))
			if err != nil {
				printError(err)
			}
			t, ok := state.Lookup(args[0])
			if !ok {
				printError(tberrors.TaskNotFoundError{ID: args[0]})
			}
			printOutput(formatter.FormatTask(t))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Read the task from this export directory instead of the data source")
	return cmd
}

// exportCmd implements 'taskboard export'.
func exportCmd() *cobra.Command {
	var vf viewFlags
	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write tasks as markdown files with YAML frontmatter",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			state, err := loadState(cmd.Context(), vf.state())
			if err != nil {
				printError(err)
			}
			tasks := state.View().Tasks
			store := storage.NewStore(args[0])
			removed, err := store.Export(tasks)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(
				fmt.Sprintf("Exported %d tasks to %s (%d removed)", len(tasks), store.BasePath(), removed)))
		},
	}
	vf.register(cmd)
	return cmd
}
