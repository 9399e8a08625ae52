// Package cli implements the grid command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/grid/internal/logging"
	"github.com/mesh-intelligence/grid/internal/paths"
	"github.com/mesh-intelligence/grid/pkg/grid"
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
	jsonMode  bool
}

// app is the state shared by the commands of one root command.
type app struct {
	flags     rootFlags
	configDir string
	config    *viper.Viper
	log       *zap.Logger
}

// NewRootCmd creates the top-level "grid" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:     "grid",
		Short:   "Edit typed grid cells from the command line",
		Long:    "Grid stores fields and rows locally and edits cells through\ntheir field type: text, numbers, dates, selects and checkboxes.",
		Version: grid.Version,
		// Errors are reported once by Execute.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = a.log.Sync()
			return nil
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newFieldCmd())
	root.AddCommand(a.newRowCmd())
	root.AddCommand(a.newCellCmd())

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

// run executes root with args and reports any error on stderr.
func run(root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "grid:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// setup loads config.yaml and builds the logger. The version command needs
// neither.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemErr(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return systemErr(err)
	}

	log, err := logging.New(cfg.GetString(cfgKeyLogLevel), cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("config %s: %w", cfgKeyLogLevel, err)
	}

	a.configDir = configDir
	a.config = cfg
	a.log = log
	a.log.Debug("configuration loaded", zap.String("config_dir", configDir))
	return nil
}

// resolveDataDir returns the data directory following the precedence
// --data-dir flag > config.yaml data_dir > GRID_DATA_DIR env > $(CWD)/.grid-db.
func (a *app) resolveDataDir() (string, error) {
	var configured string
	if a.config != nil {
		configured = a.config.GetString(cfgKeyDataDir)
	}
	return paths.ResolveDataDir(a.flags.dataDir, configured)
}
