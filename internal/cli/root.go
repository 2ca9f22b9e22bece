// Package cli implements the haldai command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/haldai/internal/logging"
	"github.com/mesh-intelligence/haldai/internal/paths"
	"github.com/mesh-intelligence/haldai/pkg/haldai"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	user      string
	jsonMode  bool
}

// app is the state shared by one command tree: flags, loaded config, and
// the logger built from it.
type app struct {
	flags  rootFlags
	cfg    *viper.Viper
	logger *zap.Logger
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// NewRootCmd creates the top-level "haldai" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:     "haldai",
		Short:   "Local task and notebook store",
		Long:    "haldai keeps tasks and notebooks in a local versioned store,\nscoped by the signed-in user's email.",
		Version: haldai.Version,
		// Errors are printed once by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = a.logger.Sync()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&a.flags.user, "user", "", "signed-in user email (overrides user_email in config)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newTaskCmd())
	root.AddCommand(a.newNotebookCmd())
	root.AddCommand(a.newGetCmd())
	root.AddCommand(a.newListCmd())
	root.AddCommand(a.newSetCmd())
	root.AddCommand(a.newDeleteCmd())
	root.AddCommand(a.newExportCmd())
	root.AddCommand(a.newImportCmd())

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	// A missing .env file is fine.
	_ = godotenv.Load()

	root := NewRootCmd()
	return run(context.Background(), root, os.Stderr)
}

// run executes root and reports any error on stderr.
func run(ctx context.Context, root *cobra.Command, stderr io.Writer) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "haldai:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// setup loads config.yaml and builds the logger. The version command needs
// neither.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return userError(err)
	}
	a.cfg = cfg

	dataDir, err := a.dataDir()
	if err != nil {
		return sysError(err)
	}
	logger, err := logging.New(logging.Options{
		Level:   cfg.GetString(cfgKeyLogLevel),
		Format:  cfg.GetString(cfgKeyLogFormat),
		File:    paths.ResolveLogFile(cfg.GetString(cfgKeyLogFile), dataDir),
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return userError(fmt.Errorf("logging: %w", err))
	}
	a.logger = logger
	return nil
}

// configDir returns the resolved configuration directory.
func (a *app) configDir() (string, error) {
	return paths.ResolveConfigDir(a.flags.configDir)
}

// dataDir returns the data directory: --data-dir > config.yaml data_dir >
// HALDAI_DATA_DIR > platform default.
func (a *app) dataDir() (string, error) {
	var fromConfig string
	if a.cfg != nil {
		fromConfig = a.cfg.GetString(cfgKeyDataDir)
	}
	dir, err := paths.ResolveDataDir(a.flags.dataDir, fromConfig)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return dir, nil
}
