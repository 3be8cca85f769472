package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bandlife/internal/app"
	"bandlife/internal/gather"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := app.NewConfig()
	var configPath string

	cmd := &cobra.Command{
		Use:   "bandlife [iterations]",
		Short: "Run Game of Life on a toroidal grid split into row bands",
		Long: "bandlife evolves a square toroidal grid with one worker per band of rows.\n" +
			"Workers swap ghost rows every generation and rank 0 prints the full grid.",
		Args: func(_ *cobra.Command, args []string) error {
			_, err := app.ParseIterations(args)
			return err
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			iterations, err := app.ParseIterations(args)
			if err != nil {
				return err
			}
			v, err := app.NewViper(configPath)
			if err != nil {
				return err
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			cfg.Resolve(v)

			log, err := app.NewLogger(cfg.LogLevel, stderr)
			if err != nil {
				return err
			}
			opts, err := cfg.Options(iterations, gather.NewTextReporter(stdout), log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return cfg.Execute(ctx, opts)
		},
	}

	fs := flag.NewFlagSet("bandlife", flag.ContinueOnError)
	cfg.Bind(fs)
	cmd.Flags().AddGoFlagSet(fs)
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file (flags and BANDLIFE_* variables take precedence)")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &app.UsageError{Msg: err.Error()}
	})
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		var uerr *app.UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, app.Usage)
		}
		fmt.Fprintln(os.Stderr, "bandlife:", err)
		os.Exit(1)
	}
}
