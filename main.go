package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"fluxboard/internal/board"
	"fluxboard/internal/errors"
	"fluxboard/internal/logger"
	"fluxboard/internal/session"
	"fluxboard/internal/store"
	"fluxboard/internal/usercfg"
	"fluxboard/internal/version"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	versionJSON bool

	addDescription string
	addPriority    string

	listText     string
	listPriority string
	listColumn   string

	editTitle       string
	editDescription string
	editPriority    string

	deleteYes bool
	seedYes   bool
)

// sessionMu guards activeSession, the session the signal handler flushes.
var (
	sessionMu     sync.Mutex
	activeSession *session.Session
)

var rootCmd = &cobra.Command{
	Use:   "fluxboard",
	Short: "Keyboard-driven kanban board for the terminal",
	Long: `FluxBoard keeps a three-column kanban board (To Do, In Progress, Done)
in a local JSON file. Run without arguments to open the board.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBoard,
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive board",
	RunE:  runBoard,
}

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task to To Do",
	Long:  "Add a task to the top of To Do. Without a title, prompts for the task interactively.",
	Example: `  fluxboard add "Write release notes" -p high
  fluxboard add                    # interactive`,
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print the board, optionally filtered",
	RunE:    runList,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a task's title, description or priority",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var moveCmd = &cobra.Command{
	Use:   "move <id> <column> [index]",
	Short: "Move a task to a column (at the end unless an index is given)",
	Example: `  fluxboard move 3f2a in-progress
  fluxboard move 3f2a todo 0       # top of To Do`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runMove,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var seedCmd = &cobra.Command{
	Use:   "seed [count]",
	Short: "Replace the board with generated tasks for stress testing",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSeed,
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the board file with the system default application",
	RunE:  runOpen,
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure FluxBoard settings interactively",
	Long:  "Launch a setup wizard to choose where the board is stored and how quickly changes are saved",
	RunE:  runSetup,
}

// configCmd provides config management subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage FluxBoard configuration",
	Long:  "Commands to view and manage FluxBoard configuration",
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate config to the current schema version",
	RunE:  runConfigMigrate,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run:   runConfigPath,
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print effective configuration",
	Run:   runConfigPrint,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate configuration and the board file",
	RunE:  runConfigDoctor,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build information as JSON")

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Task description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "low", "Priority: low, medium or high (1-3)")

	listCmd.Flags().StringVarP(&listText, "text", "t", "", "Only tasks whose title or description contains this text")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Only tasks with this priority")
	listCmd.Flags().StringVarP(&listColumn, "column", "c", "", "Only this column (todo, in-progress, done)")

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority")

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
	seedCmd.Flags().BoolVarP(&seedYes, "yes", "y", false, "Replace a non-empty board without asking")

	// Add subcommands
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	// Add config subcommands
	configCmd.AddCommand(configMigrateCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configPrintCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configDoctorCmd)

	// Setup graceful shutdown: write any pending change before exiting
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		sessionMu.Lock()
		if activeSession != nil {
			if err := activeSession.Close(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		sessionMu.Unlock()
		fmt.Println("\n\033[93mOperation cancelled by user.\033[0m")
		os.Exit(0)
	}()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openSession loads the board named by the runtime config and registers it
// for the signal handler. Callers must closeSession it.
func openSession() *session.Session {
	cfg := usercfg.GetRuntimeConfig()
	sess := session.Open(session.Options{
		Store:     store.New(cfg.BoardPath()),
		SaveDelay: cfg.SaveDelay(),
	})
	if sess.LoadErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n", sess.LoadErr)
	}

	sessionMu.Lock()
	activeSession = sess
	sessionMu.Unlock()
	return sess
}

// boardFileAdvice says what the next open will do with a board file that
// Inspect rejected.
func boardFileAdvice(err error) string {
	if stderrors.Is(err, store.ErrUnreadable) {
		return "It cannot be read, so FluxBoard opens it read-only and never saves over it. Fix its permissions or disk, then reopen"
	}
	return "It will be moved aside and replaced by an empty board on next open"
}

// openWritableSession is openSession for commands that change the board. A
// board that could not be read is refused rather than edited in memory only.
func openWritableSession() (*session.Session, error) {
	sess := openSession()
	if err := requireWritable(sess); err != nil {
		var ignored error
		closeSession(sess, &ignored)
		return nil, err
	}
	return sess, nil
}

func requireWritable(sess *session.Session) error {
	if !sess.ReadOnly() {
		return nil
	}
	return fmt.Errorf("board is read-only until it can be loaded: %w", sess.LoadErr)
}

// closeSession flushes the pending save. A write failure wins over err only
// when err is nil.
func closeSession(sess *session.Session, err *error) {
	sessionMu.Lock()
	if activeSession == sess {
		activeSession = nil
	}
	sessionMu.Unlock()

	if cerr := sess.Close(); cerr != nil && *err == nil {
		*err = errors.WrapWithContext(cerr, "board_save")
	}
}

func runBoard(cmd *cobra.Command, args []string) (err error) {
	sess := openSession()
	defer closeSession(sess, &err)

	if err := StartBoard(sess); err != nil {
		return fmt.Errorf("board failed: %w", err)
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) (err error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	description := addDescription
	priorityInput := addPriority

	if title == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Title:",
		}, &title, survey.WithValidator(survey.Required)); err != nil {
			fmt.Println("Add cancelled")
			return nil
		}
		if err := survey.AskOne(&survey.Input{
			Message: "Description (optional):",
			Default: description,
		}, &description); err != nil {
			fmt.Println("Add cancelled")
			return nil
		}
		if !cmd.Flags().Changed("priority") {
			if err := survey.AskOne(&survey.Select{
				Message: "Priority:",
				Options: []string{"Low", "Medium", "High"},
				Default: "Low",
			}, &priorityInput); err != nil {
				fmt.Println("Add cancelled")
				return nil
			}
		}
	}

	priority, perr := parsePriority(priorityInput)
	if perr != nil {
		return perr
	}

	sess, oerr := openWritableSession()
	if oerr != nil {
		return oerr
	}
	defer closeSession(sess, &err)

	task, ok := sess.Add(title, description, priority)
	if !ok {
		return fmt.Errorf("task was not added: title must not be empty")
	}
	fmt.Printf("✅ Added %s: %s\n", task.ID, task.Title)
	return nil
}

func runList(cmd *cobra.Command, args []string) (err error) {
	filters := board.Filters{Text: listText}
	if listPriority != "" {
		p, perr := parsePriority(listPriority)
		if perr != nil {
			return perr
		}
		filters.Priority = p
	}
	columns := board.Columns
	if listColumn != "" {
		c, cerr := board.ParseColumn(listColumn)
		if cerr != nil {
			return errors.NewInvalidColumnError(listColumn)
		}
		columns = []board.Column{c}
	}

	sess := openSession()
	defer closeSession(sess, &err)

	state := sess.State()
	view := board.Project(state.Tasks, state.Order, filters)
	fmt.Print(formatBoard(state.Tasks, view, columns, time.Now()))
	if filters.Active() {
		fmt.Printf("\n%s\n", filterLabel(filters))
	}
	return nil
}

// formatBoard renders the listed columns of view as plain text.
func formatBoard(tasks map[string]board.Task, view board.Order, columns []board.Column, now time.Time) string {
	var b strings.Builder
	for i, c := range columns {
		if i > 0 {
			b.WriteString("\n")
		}
		ids := view.Column(c)
		fmt.Fprintf(&b, "%s (%d)\n", c.Title(), len(ids))
		if len(ids) == 0 {
			b.WriteString("  (empty)\n")
			continue
		}
		for _, id := range ids {
			t := tasks[id]
			fmt.Fprintf(&b, "  %s  [%s] %s  (%s)\n", t.ID, priorityTag(t.Priority), t.Title, board.TimeAgo(t.UpdatedAt, now))
			if t.Description != "" {
				fmt.Fprintf(&b, "      %s\n", t.Description)
			}
		}
	}
	return b.String()
}

func runEdit(cmd *cobra.Command, args []string) (err error) {
	var changes board.TaskChanges
	if cmd.Flags().Changed("title") {
		title := strings.TrimSpace(editTitle)
		if title == "" {
			return fmt.Errorf("title must not be empty")
		}
		changes.Title = board.StringPtr(title)
	}
	if cmd.Flags().Changed("description") {
		changes.Description = board.StringPtr(strings.TrimSpace(editDescription))
	}
	if cmd.Flags().Changed("priority") {
		p, perr := parsePriority(editPriority)
		if perr != nil {
			return perr
		}
		changes.Priority = board.PriorityPtr(p)
	}
	if changes.Empty() {
		return fmt.Errorf("nothing to change; pass --title, --description or --priority")
	}

	sess, oerr := openWritableSession()
	if oerr != nil {
		return oerr
	}
	defer closeSession(sess, &err)

	id, rerr := resolveID(sess.State(), args[0])
	if rerr != nil {
		return rerr
	}
	state := sess.Dispatch(board.UpdateTask{ID: id, Changes: changes})
	fmt.Printf("✅ Updated %s: %s\n", id, state.Tasks[id].Title)
	return nil
}

func runMove(cmd *cobra.Command, args []string) (err error) {
	to, cerr := board.ParseColumn(args[1])
	if cerr != nil {
		return errors.NewInvalidColumnError(args[1])
	}

	sess, oerr := openWritableSession()
	if oerr != nil {
		return oerr
	}
	defer closeSession(sess, &err)

	state := sess.State()
	id, rerr := resolveID(state, args[0])
	if rerr != nil {
		return rerr
	}
	from, fromIndex, ok := state.Order.Locate(id)
	if !ok {
		return errors.NewTaskNotFoundError(args[0])
	}

	// default: end of the destination, counted after the task leaves its slot
	toIndex := len(state.Order.Column(to))
	if len(args) == 3 {
		n, aerr := strconv.Atoi(args[2])
		if aerr != nil || n < 0 {
			return fmt.Errorf("index must be a non-negative integer, got %q", args[2])
		}
		toIndex = n
	}

	next := sess.Dispatch(board.MoveTask{ID: id, From: from, To: to, FromIndex: fromIndex, ToIndex: toIndex})
	_, at, _ := next.Order.Locate(id)
	fmt.Printf("✅ Moved %s to %s (position %d)\n", id, to.Title(), at)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) (err error) {
	sess, oerr := openWritableSession()
	if oerr != nil {
		return oerr
	}
	defer closeSession(sess, &err)

	state := sess.State()
	id, rerr := resolveID(state, args[0])
	if rerr != nil {
		return rerr
	}
	task := state.Tasks[id]

	if !deleteYes {
		var confirm bool
		if err := survey.AskOne(&survey.Confirm{
			Message: fmt.Sprintf("Delete %q?", task.Title),
			Default: false,
		}, &confirm); err != nil || !confirm {
			fmt.Println("Delete cancelled")
			return nil
		}
	}

	sess.Dispatch(board.DeleteTask{ID: id})
	fmt.Printf("✅ Deleted %s: %s\n", id, task.Title)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) (err error) {
	count := board.DefaultSeedCount
	if len(args) == 1 {
		n, aerr := strconv.Atoi(args[0])
		if aerr != nil || n <= 0 {
			return fmt.Errorf("count must be a positive integer, got %q", args[0])
		}
		count = n
	}

	sess, oerr := openWritableSession()
	if oerr != nil {
		return oerr
	}
	defer closeSession(sess, &err)

	if existing := len(sess.State().Tasks); existing > 0 && !seedYes {
		var confirm bool
		if err := survey.AskOne(&survey.Confirm{
			Message: fmt.Sprintf("Replace the current board (%d tasks) with %d generated tasks?", existing, count),
			Default: false,
		}, &confirm); err != nil || !confirm {
			fmt.Println("Seed cancelled")
			return nil
		}
	}

	start := time.Now()
	sess.Dispatch(board.Hydrate{Snapshot: board.Seed(count, start)})
	logger.Engine("seeded %d tasks in %v", count, time.Since(start))
	fmt.Printf("✅ Board replaced with %d generated tasks\n", count)
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	path := usercfg.GetRuntimeConfig().BoardPath()
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no board file at %s yet; add a task first", path)
	}
	if err := browser.OpenFile(path); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println("FluxBoard Setup Wizard")
	fmt.Println("======================")

	currentConfig, err := usercfg.LoadForEdit()
	if err != nil {
		return errors.WrapWithContext(err, "config_load")
	}
	newConfig := currentConfig
	isFirstRun := !usercfg.IsConfigured()

	if env := usercfg.EnvOverrides(); len(env) > 0 {
		fmt.Printf("Note: %s set in the environment; they override the file but are not saved to it.\n\n", strings.Join(env, ", "))
	}

	if isFirstRun {
		fmt.Println("Welcome! Let's configure FluxBoard for your environment.")
		fmt.Println()
	} else {
		fmt.Printf("Existing config found at %s, modifying.\n\n", usercfg.Path())
		fmt.Printf("  Data path: %s\n", currentConfig.DataPath)
		fmt.Printf("  Save delay: %dms\n", currentConfig.SaveDelayMS)
		fmt.Println()
	}

	var dataPath string
	if err := survey.AskOne(&survey.Input{
		Message: "Where should the board be stored?",
		Default: currentConfig.DataPath,
		Help:    "A JSON file; a leading ~ is expanded to your home directory",
	}, &dataPath, survey.WithValidator(survey.Required)); err != nil {
		fmt.Println("Setup cancelled")
		return nil
	}
	newConfig.DataPath = strings.TrimSpace(dataPath)

	var delay string
	if err := survey.AskOne(&survey.Input{
		Message: "Save delay in milliseconds:",
		Default: strconv.Itoa(currentConfig.SaveDelayMS),
		Help:    "Changes are written once the board has been quiet this long",
	}, &delay, survey.WithValidator(func(ans interface{}) error {
		s, _ := ans.(string)
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
			return fmt.Errorf("enter a positive number of milliseconds")
		}
		return nil
	})); err != nil {
		fmt.Println("Setup cancelled")
		return nil
	}
	newConfig.SaveDelayMS, _ = strconv.Atoi(strings.TrimSpace(delay))

	var confirm bool
	if err := survey.AskOne(&survey.Confirm{
		Message: fmt.Sprintf("Save configuration to %s?", usercfg.Path()),
		Default: true,
	}, &confirm); err != nil || !confirm {
		fmt.Println("Setup cancelled")
		return nil
	}

	if err := usercfg.Save(newConfig); err != nil {
		return errors.WrapWithContext(err, "config_save")
	}

	fmt.Println()
	fmt.Printf("✅ Configuration saved to %s\n", usercfg.Path())
	fmt.Printf("   Board file: %s\n", newConfig.BoardPath())
	fmt.Println("   Run 'fluxboard' to open the board.")
	return nil
}

func runConfigMigrate(cmd *cobra.Command, args []string) error {
	if err := usercfg.MigrateAndSave(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) {
	fmt.Println(usercfg.Path())
}

func runConfigPrint(cmd *cobra.Command, args []string) {
	config := usercfg.GetRuntimeConfig()

	fmt.Printf("Configuration (effective):\n")
	fmt.Printf("  Schema Version: %d\n", config.SchemaVersion)
	fmt.Printf("  Data Path: %s\n", config.DataPath)
	fmt.Printf("  Board File: %s\n", config.BoardPath())
	fmt.Printf("  Save Delay: %dms\n", config.SaveDelayMS)
	fmt.Printf("  UI Preferences: %+v\n", config.UIPrefs)
	fmt.Printf("\nConfig file location: %s\n", usercfg.Path())
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	config := usercfg.GetRuntimeConfig()
	value, ok := config.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown key: %s (available keys: %s, schema_version)", args[0], strings.Join(usercfg.Keys, ", "))
	}
	fmt.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	config, err := usercfg.LoadForEdit()
	if err != nil {
		return errors.WrapWithContext(err, "config_load")
	}

	if err := config.Set(key, value); err != nil {
		return err
	}

	if err := usercfg.Save(config); err != nil {
		return errors.WrapWithContext(err, "config_save")
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("🏥 FluxBoard Doctor")
	fmt.Println("===================")

	issues := 0

	configPath := usercfg.Path()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Println("ℹ️  No config file found - using defaults")
		fmt.Printf("   Create one with: fluxboard setup\n")
	} else if _, err := usercfg.Load(); err != nil {
		fmt.Printf("⚠️  Config file could not be read: %v\n", err)
		issues++
	} else {
		fmt.Println("✅ Config file found at XDG-compliant location")
	}

	config := usercfg.GetRuntimeConfig()

	if config.SchemaVersion < usercfg.CurrentSchemaVersion {
		fmt.Printf("⚠️  Config schema is outdated (v%d, current: v%d)\n", config.SchemaVersion, usercfg.CurrentSchemaVersion)
		fmt.Println("   Run: fluxboard config migrate")
		issues++
	} else {
		fmt.Printf("✅ Config schema is current (v%d)\n", config.SchemaVersion)
	}

	boardPath := config.BoardPath()
	dir := filepath.Dir(boardPath)
	if info, err := os.Stat(dir); err != nil {
		fmt.Printf("ℹ️  Board directory %s does not exist yet; it is created on first save\n", dir)
	} else if !info.IsDir() {
		fmt.Printf("⚠️  %s is not a directory\n", dir)
		fmt.Println("   Run: fluxboard config set data_path <path>")
		issues++
	}

	snap, err := store.New(boardPath).Inspect()
	switch {
	case err == store.ErrNoBoard:
		fmt.Printf("ℹ️  No board file at %s yet\n", boardPath)
	case err != nil:
		fmt.Printf("⚠️  Board file %s has a problem: %v\n", boardPath, err)
		fmt.Printf("   %s\n", boardFileAdvice(err))
		issues++
	default:
		problems := board.Validate(snap)
		if len(problems) == 0 {
			fmt.Printf("✅ Board file is consistent (%d tasks)\n", len(snap.Tasks))
		} else {
			fmt.Printf("⚠️  Board file has %d consistency problem(s):\n", len(problems))
			for _, p := range problems {
				fmt.Printf("   - %s\n", p)
			}
			issues++
		}
	}

	if _, err := os.Stat(boardPath + store.CorruptSuffix); err == nil {
		fmt.Printf("ℹ️  A previously corrupt board was kept at %s\n", boardPath+store.CorruptSuffix)
	}

	fmt.Println()
	if issues == 0 {
		fmt.Println("🎉 No issues found! Configuration looks healthy.")
		return nil
	}
	return fmt.Errorf("found %d issue(s); see suggestions above", issues)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	if versionJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintln(cmd.OutOrStdout(), info)
	return nil
}

func parsePriority(input string) (board.Priority, error) {
	p, err := board.ParsePriority(input)
	if err != nil || !p.Valid() {
		return board.PriorityNone, errors.NewInvalidPriorityError(input)
	}
	return p, nil
}

// resolveID accepts a full task id or a unique prefix of one.
func resolveID(state board.State, input string) (string, error) {
	input = strings.TrimSpace(input)
	if _, ok := state.Tasks[input]; ok {
		return input, nil
	}
	if input == "" {
		return "", errors.NewTaskNotFoundError(input)
	}

	var matches []string
	for id := range state.Tasks {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", errors.NewTaskNotFoundError(input)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("id prefix %q matches %d tasks; use more characters", input, len(matches))
}
