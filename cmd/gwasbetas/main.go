// gwasbetas extracts, for every GWAS summary statistics file in a folder, a
// standardized beta for each variant of a PredictDB weight model. It can also
// load per-chromosome genotype dosages into one table.
package main

import (
	"fmt"
	"os"

	"github.com/carbocation/gwasbetas/compileinfo"
	"github.com/carbocation/gwasbetas/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries state shared by the subcommands once the root command has
// parsed its flags.
type app struct {
	configPath string

	// flags receives command line values. Only the ones the user set are
	// copied onto cfg, which starts from the config file.
	flags config.Config
	cfg   config.Config

	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{flags: config.Default(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:          "gwasbetas",
		Short:        "Reconcile GWAS summary statistics and genotype shards against a weight model",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Optional TOML file with run settings. Flags given explicitly override it.")
	pf.IntVar(&a.flags.Verbosity, "verbosity", a.flags.Verbosity, "Log verbosity: 10 debug, 20 info, 30 warning, higher only errors.")

	root.AddCommand(newBetasCmd(a), newGenotypeCmd(a), newVersionCmd())

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	var unknown error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		apply, ok := overrides[f.Name]
		if !ok {
			unknown = fmt.Errorf("flag --%s has no config equivalent", f.Name)
			return
		}
		apply(&cfg, &a.flags)
	})
	if unknown != nil {
		return unknown
	}
	a.cfg = cfg

	log, err := newLogger(cfg.Verbosity)
	if err != nil {
		return err
	}
	a.log = log
	a.log.Debug("Starting", compileinfo.Get().Fields()...)

	return nil
}
