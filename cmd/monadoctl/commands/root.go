package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	libmonado "github.com/technobaboo/libmonado-go"
	"github.com/technobaboo/libmonado-go/internal/cliconfig"
	"github.com/technobaboo/libmonado-go/internal/logutil"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	configPath string
	lib        string
	output     string
	logLevel   string
	debug      bool

	cfg    *cliconfig.Config
	logger *slog.Logger

	// opts are appended to every connect, after the logger.
	opts []libmonado.Option
}

// Execute runs monadoctl with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. opts are passed to every
// libmonado.Create or AutoConnect call.
func NewRootCmd(opts ...libmonado.Option) *cobra.Command {
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:               "monadoctl",
		Short:             "Inspect and control a running Monado runtime",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/monadoctl/config.toml)")
	root.PersistentFlags().StringVar(&a.lib, "lib", "", "path to libmonado (default: from the active runtime)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", cliconfig.DefaultOutput, "output format: table, json or yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", cliconfig.DefaultLogLevel, "log level: trace, debug, info, warn or error")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging (same as --log-level debug)")

	root.AddCommand(
		a.infoCmd(),
		a.locateCmd(),
		a.versionCmd(),
		a.clientsCmd(),
		a.clientCmd(),
		a.devicesCmd(),
		a.deviceCmd(),
		a.roleCmd(),
		a.originsCmd(),
		a.originCmd(),
		a.spaceCmd(),
		a.recenterCmd(),
		a.chromaKeyCmd(),
		a.watchCmd(),
		a.serveCmd(),
	)
	return root
}

// setup loads the config file and lets explicitly set flags win over it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path, required := a.configPath, true
	if path == "" {
		path, required = cliconfig.DefaultPath(), false
	}
	cfg, err := cliconfig.Load(path, required)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("lib") {
		cfg.Library = a.lib
	}
	if flags.Changed("output") {
		cfg.Output = a.output
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("debug") {
		cfg.Debug = a.debug
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	a.logger = logutil.NewLogger(cmd.ErrOrStderr(), level)
	a.logger.Debug("configuration loaded", "path", path, "library", cfg.Library, "output", cfg.Output, "level", level)
	return nil
}

func (a *app) libOptions() []libmonado.Option {
	return append([]libmonado.Option{libmonado.WithLogger(a.logger)}, a.opts...)
}

func (a *app) connect() (*libmonado.Monado, error) {
	if a.cfg.Library != "" {
		return libmonado.Create(a.cfg.Library, a.libOptions()...)
	}
	return libmonado.AutoConnect(a.libOptions()...)
}

// withMonado connects, runs fn and disconnects.
func (a *app) withMonado(fn func(m *libmonado.Monado) error) error {
	m, err := a.connect()
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}
