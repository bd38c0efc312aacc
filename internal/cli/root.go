package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/RyanBlaney/sonido-wbp/corpus"
	"github.com/RyanBlaney/sonido-wbp/logging"
	"github.com/RyanBlaney/sonido-wbp/wbp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries the state shared by the commands of one CLI invocation
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *Config
	out        io.Writer
}

// NewRootCommand creates the wbp command tree writing its reports to out
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{v: newViper(), out: out}

	rootCmd := &cobra.Command{
		Use:   "wbp",
		Short: "Walking bass phrase database tool",
		Long: `Loads recorded walking bass sessions, cuts them into 1 to 4 bar phrases
and indexes them by harmonic shape.

Commands:
- audit: look for harmonic coverage gaps and extraction artifacts
- stats: show database counters
- query: list the phrases playable over a chord progression`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml or json)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored logs")
	flags.StringSlice("corpus", nil, "recording files to load instead of the bundled corpus")

	bindFlag(a.v, "log_level", flags.Lookup("log-level"))
	bindFlag(a.v, "no_color", flags.Lookup("no-color"))
	bindFlag(a.v, "corpus", flags.Lookup("corpus"))

	rootCmd.SetOut(out)
	rootCmd.AddCommand(
		newAuditCommand(a),
		newStatsCommand(a),
		newQueryCommand(a),
	)
	return rootCmd
}

// Execute runs the CLI and exits on error
func Execute() {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func bindFlag(v *viper.Viper, key string, f *pflag.Flag) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", f.Name, err))
	}
}

// initialize reads the configuration and sets up the global logger
func (a *app) initialize(cmd *cobra.Command) error {
	if err := readConfigFile(a.v, a.configFile); err != nil {
		return err
	}

	cfg, err := LoadConfig(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, ok := logging.ParseLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	var logger *logging.DefaultLogger
	if cfg.NoColor {
		logger = logging.NewDefaultLoggerNoColor()
	} else {
		logger = logging.NewDefaultLogger()
	}
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.ContextWithFields(ctx, logging.Fields{"command": cmd.Name()})
	cmd.SetContext(ctx)

	logging.WithContext(ctx).Debug("Configuration loaded", logging.Fields{
		"component":   "cli",
		"config_file": a.v.ConfigFileUsed(),
		"corpus":      cfg.Corpus,
	})
	return nil
}

// loadDatabase builds the phrase database from the configured corpus. The
// loader logs with the fields carried by ctx.
func (a *app) loadDatabase(ctx context.Context) (*wbp.Database, *corpus.LoadReport, error) {
	db := wbp.NewDatabase()
	loader := corpus.NewLoader(db, &a.cfg.Extraction)
	loader.SetLogger(logging.WithContext(ctx).WithFields(logging.Fields{
		"component": "corpus_loader",
	}))

	if len(a.cfg.Corpus) > 0 {
		return db, loader.LoadFiles(a.cfg.Corpus...), nil
	}
	report, err := loader.LoadFS(corpus.Bundled(), corpus.BundledPattern)
	if err != nil {
		return nil, nil, err
	}
	return db, report, nil
}
