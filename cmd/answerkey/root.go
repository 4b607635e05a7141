package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/zephyrtronium/answerkey/internal/config"
	"github.com/zephyrtronium/answerkey/internal/logging"
)

// app is the state shared by commands.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool

	cfg  *config.Config
	log  *zap.Logger
	done func() error
}

// flagKeys maps configuration keys to the flags that set them. A command
// binds whichever of these flags it has.
var flagKeys = map[string]string{
	"input":                    "input",
	"output.path":              "output",
	"output.format":            "format",
	"evaluator.strict_pi":      "strict-pi",
	"evaluator.precision_bits": "precision",
	"log.file":                 "log-file",
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: config.New()}
	root := &cobra.Command{
		Use:   "answerkey",
		Short: "Compute answer keys for formula questions",
		Long: `answerkey evaluates the answer formulas of quiz questions with each
question's variables and rounds the results to each answer's precision.

Run without a subcommand to process a batch, the same as "answerkey run".`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.run,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./answerkey.yaml if present)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log debug details")
	pf.String("log-file", "", "also write JSON logs to this file, with rotation")
	addRunFlags(root)

	root.AddCommand(newRunCmd(a), newEvalCmd(a))
	return root, a
}

// execute runs the command line, then flushes the logger and closes the log
// file whether or not the command succeeded. Cobra skips post-run hooks after
// a command fails.
func (a *app) execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if a.done != nil {
		if cerr := a.done(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing log file")
		}
		a.done = nil
	}
	return err
}

// setup loads configuration and creates the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return errors.Wrapf(err, "binding --%s", name)
			}
		}
	}
	if a.verbose {
		a.v.Set("log.level", "debug")
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	log, done, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	a.log, a.done = log, done
	return nil
}
