package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/WarpedWartWars/lips/lisp"
	"github.com/WarpedWartWars/lips/lisp/lisplib"
	"github.com/WarpedWartWars/lips/parser"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
	runTimeout    time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [file ...]",
	Short: "Run lisp code",
	Long:  `Run lisp code supplied via the command line or files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if runTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, runTimeout)
			defer cancel()
		}

		srcs, err := runReadSources(args)
		if err != nil {
			return err
		}

		env := lisp.NewEnv(nil)
		config := []lisp.Config{
			lisp.WithReader(parser.NewReader()),
			lisp.WithStdout(cmd.OutOrStdout()),
			lisp.WithStderr(cmd.ErrOrStderr()),
			lisplib.WithLibrary(),
		}
		config = append(config, c.LispConfig(ctx, logger)...)
		err = lisp.InitializeUserEnv(env, config...)
		if err != nil {
			return err
		}
		for _, src := range srcs {
			logger.Debug("run", "source", src.name)
			err := runOne(ctx, env, src, cmd.OutOrStdout())
			if err != nil {
				writeError(cmd.ErrOrStderr(), err)
				return errors.New("run failed")
			}
		}
		return nil
	},
}

type source struct {
	name string
	text string
}

func runOne(ctx context.Context, env *lisp.Env, src source, w io.Writer) error {
	vals, err := runSource(ctx, env, src.name, src.text)
	if err != nil {
		return err
	}
	if runPrint {
		for _, v := range vals {
			fmt.Fprintln(w, v)
		}
	}
	return nil
}

func runReadSources(args []string) ([]source, error) {
	srcs := make([]source, len(args))
	if runExpression {
		for i := range args {
			srcs[i] = source{name: fmt.Sprintf("<expr%d>", i+1), text: args[i]}
		}
		return srcs, nil
	}
	for i, path := range args {
		var b []byte
		var err error
		if path == "-" {
			b, err = io.ReadAll(os.Stdin)
		} else {
			b, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, err
		}
		srcs[i] = source{name: path, text: string(b)}
	}
	return srcs, nil
}

func writeError(w io.Writer, err error) {
	var lerr *lisp.Error
	if errors.As(err, &lerr) {
		lerr.WriteTrace(w)
		return
	}
	fmt.Fprintln(w, err)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0,
		"Abort if evaluation has not settled after this long")
}
