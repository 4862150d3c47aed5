package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/countclock/internal/config"
	"github.com/ensigniasec/countclock/internal/countdown"
	"github.com/ensigniasec/countclock/internal/storage"
	"github.com/ensigniasec/countclock/internal/targets"
	"github.com/ensigniasec/countclock/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile  string
	storageFile string
	verbose     bool
	minutes     int
	seconds     int
	targetRef   string
	until       string
	overtime    bool

	// cfg is loaded in PersistentPreRunE before any command runs.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "countclock",
		Short: "A terminal countdown clock for talks and presentations.",
		Long:  `Count down a duration or to a saved date, with the clock face shifting from green through yellow to red as time runs out. Saved targets are kept in a local storage file.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		Run: func(cmd *cobra.Command, args []string) {
			fd := os.Stdout.Fd()
			if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
				logrus.Debug("stdout is not a terminal; printing plain output")
				runCmd.Run(cmd, args)
				return
			}
			store, err := openStore()
			if err != nil {
				logrus.Warnf("Saved targets unavailable: %v", err)
				store = nil
			}
			opts := tui.Options{
				Seconds:       resolveSeconds(),
				Presets:       cfg.PresetSeconds(),
				FrameInterval: cfg.FrameInterval.Duration,
				Store:         store,
				Target:        resolveTarget(store),
			}
			if err := tui.Run(cmd.Context(), opts); err != nil {
				logrus.Fatalf("TUI mode failed: %v", err)
			}
		},
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr so plain countdown lines on stdout stay clean.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML or TOML config file")
	rootCmd.PersistentFlags().StringVar(&storageFile, "storage-file", "", "Path to the saved-target storage file")

	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().IntVarP(&minutes, "minutes", "m", 0, "Count down this many minutes")
		c.Flags().IntVarP(&seconds, "seconds", "s", 0, "Count down this many seconds")
		c.Flags().StringVarP(&targetRef, "target", "t", "", "Count down to a saved target (id or name)")
		c.MarkFlagsMutuallyExclusive("minutes", "seconds", "target")
	}
	rootCmd.Flags().BoolVar(&overtime, "overtime", false, "Keep counting past zero when output is not a terminal")
	runCmd.Flags().StringVar(&until, "until", "", "Count down to an absolute time (RFC 3339 or \"2006-01-02 15:04\")")
	runCmd.Flags().BoolVar(&overtime, "overtime", false, "Keep counting past zero")
	runCmd.MarkFlagsMutuallyExclusive("until", "minutes")
	runCmd.MarkFlagsMutuallyExclusive("until", "seconds")
	runCmd.MarkFlagsMutuallyExclusive("until", "target")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(targetsCmd)

	targetsCmd.AddCommand(targetsListCmd)
	targetsCmd.AddCommand(targetsAddCmd)
	targetsCmd.AddCommand(targetsRmCmd)
	targetsCmd.AddCommand(targetsShowCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		logrus.Fatal(err)
	}
}

// setup loads config and applies logging flags.
func setup() error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	cfg = loaded
	if storageFile != "" {
		cfg.StorageFile = storageFile
	}
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(cfg.Level())
	}
	return nil
}

// openStore opens the saved-target store backed by the storage file.
func openStore() (*targets.Store, error) {
	st, err := storage.NewOrExistingStorage(cfg.StorageFile)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return targets.Open(st)
}

// prepareTimer builds the plain-mode timer from flags and config.
func prepareTimer() *countdown.Timer {
	timer := countdown.New(resolveSeconds())
	if targetRef != "" {
		store, err := openStore()
		if err != nil {
			logrus.Fatal(err)
		}
		t := resolveTarget(store)
		if err := timer.SetTarget(t.Date, time.Now()); err != nil {
			logrus.Fatal(err)
		}
	}
	if until != "" {
		at, err := parseDate(until)
		if err != nil {
			logrus.Fatalf("Invalid --until: %v", err)
		}
		if err := timer.SetTarget(at, time.Now()); err != nil {
			logrus.Fatal(err)
		}
	}
	return timer
}

func resolveSeconds() int {
	switch {
	case seconds > 0:
		return seconds
	case minutes > 0:
		return minutes * 60 //nolint:mnd // minutes to seconds
	default:
		return cfg.Duration.WholeSeconds()
	}
}

func resolveTarget(store *targets.Store) *targets.SavedTarget {
	if targetRef == "" {
		return nil
	}
	if store == nil {
		logrus.Fatal("--target needs the storage file")
	}
	t, err := store.Find(targetRef)
	if err != nil {
		logrus.Fatal(err)
	}
	return &t
}

// parseDate accepts RFC 3339 or "2006-01-02 15:04" in local time.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04", s, time.Local)
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a countdown in plain output mode",
	Long:  "Run a countdown without the interactive screen, printing one line per second. Stops at zero unless --overtime is set; interrupt to stop early.",
	Run: func(cmd *cobra.Command, args []string) {
		timer := prepareTimer()
		if err := runPlain(cmd.Context(), os.Stdout, timer, plainOptions{
			FrameInterval: cfg.FrameInterval.Duration,
			Overtime:      overtime || cfg.Overtime,
		}); err != nil {
			logrus.Fatal(err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var formatCmd = &cobra.Command{
	Use:   "format SECONDS...",
	Short: "Print second counts as MM:SS",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				logrus.Fatalf("Invalid seconds value %q", a)
			}
			fmt.Fprintln(os.Stdout, countdown.Format(n))
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Manage saved countdown targets",
	Long:  "View, add, or remove named dates saved for reuse as countdown targets.",
	Run: func(cmd *cobra.Command, args []string) {
		targetsListCmd.Run(cmd, args)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var targetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved targets",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openStore()
		if err != nil {
			logrus.Fatal(err)
		}
		s.View(os.Stdout)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var targetsAddCmd = &cobra.Command{
	Use:   "add NAME DATE",
	Short: "Save a named target date",
	Long:  "Save a named target. DATE is RFC 3339 (2026-11-03T14:30:00Z) or \"2006-01-02 15:04\" in local time.",
	Args:  cobra.ExactArgs(2), //nolint:mnd // name and date
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openStore()
		if err != nil {
			logrus.Fatal(err)
		}
		at, err := parseDate(args[1])
		if err != nil {
			logrus.Fatalf("Invalid date %q: %v", args[1], err)
		}
		t, err := s.Save(args[0], at)
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "Saved target %d (%s)\n", t.ID, t.Name)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var targetsRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a saved target",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openStore()
		if err != nil {
			logrus.Fatal(err)
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			logrus.Fatalf("Invalid target id %q", args[0])
		}
		if err := s.Delete(id); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "Deleted target %d\n", id)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var targetsShowCmd = &cobra.Command{
	Use:   "show ID_OR_NAME",
	Short: "Show a saved target and the time left until it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openStore()
		if err != nil {
			logrus.Fatal(err)
		}
		t, err := s.Find(args[0])
		if err != nil {
			logrus.Fatal(err)
		}
		left := countdown.UntilTarget(t.Date, time.Now())
		fmt.Fprintf(os.Stdout, "%d\t%s\t%s\t%s\n", t.ID, t.Name, t.Date.Format(time.RFC3339), countdown.Format(left))
	},
}

func main() {
	Execute()
}
