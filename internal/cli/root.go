// Package cli implements esgctl, the command line client of the ESG board.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"esgboard/internal/apiclient"
	"esgboard/internal/catalog"
	"esgboard/internal/i18n"
	logger "esgboard/internal/logging"
	"esgboard/internal/session"
)

// App carries what every command needs. Out and Prompter are replaceable so
// commands can run without a terminal.
type App struct {
	Out      io.Writer
	Prompter Prompter

	cfgFile string
	verbose bool

	v       *viper.Viper
	log     *zap.Logger
	store   *session.Store
	client  *apiclient.Client
	catalog *catalog.Catalog
}

// Execute runs esgctl against the process arguments.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &App{Out: os.Stdout, Prompter: TerminalPrompter{}}
	err := NewRootCommand(app).ExecuteContext(ctx)
	if errors.Is(err, apiclient.ErrUnauthenticated) {
		return fmt.Errorf("%w; run `esgctl login` first", err)
	}
	return err
}

func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "esgctl",
		Short: "Command line client for the ESG board",
		Long: `esgctl signs in to an ESG board server, fills in the yearly
questionnaires and targets, and reads back dashboards and reports.

Settings are read from ~/.config/esgctl/config.yaml and ESGCTL_* environment
variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.log != nil {
				_ = app.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.cfgFile, "config", "", "config file (default ~/.config/esgctl/config.yaml)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "verbose output")
	flags.String("base-url", "", "server base URL")
	flags.String("session", "", "session file")
	flags.String("lang", "", "language for this command (en or vi)")

	root.AddCommand(
		newLoginCommand(app),
		newRegisterCommand(app),
		newLogoutCommand(app),
		newProfileCommand(app),
		newSectionsCommand(app),
		newFillCommand(app),
		newDashboardCommand(app),
		newChartCommand(app),
		newCompanyCommand(app),
		newReportCommand(app),
		newLangCommand(app),
	)
	return root
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".esgctl"
	}
	return filepath.Join(dir, "esgctl")
}

func (a *App) setup(cmd *cobra.Command) error {
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Prompter == nil {
		a.Prompter = TerminalPrompter{}
	}
	a.log = logger.NewConsole(a.verbose)

	v := viper.New()
	v.SetDefault("base_url", "http://localhost:5050")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("debounce", 600*time.Millisecond)
	v.SetDefault("session_file", filepath.Join(configDir(), "session.yaml"))

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("ESGCTL") // e.g. ESGCTL_BASE_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{"base_url": "base-url", "session_file": "session", "lang": "lang"} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	a.v = v

	store, err := session.Open(v.GetString("session_file"))
	if err != nil {
		return err
	}
	a.store = store

	a.client, err = apiclient.New(v.GetString("base_url"), store,
		apiclient.WithTimeout(v.GetDuration("timeout")),
		apiclient.WithLogger(a.log),
	)
	if err != nil {
		return err
	}
	a.catalog = catalog.Default()
	a.log.Debug("esgctl configured",
		zap.String("config", v.ConfigFileUsed()),
		zap.String("baseURL", v.GetString("base_url")),
	)
	return nil
}

// lang is the --lang/config language when set, otherwise the session's.
func (a *App) lang() i18n.Lang {
	if l, ok := i18n.Parse(a.v.GetString("lang")); ok {
		return l
	}
	return a.store.Lang()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}
