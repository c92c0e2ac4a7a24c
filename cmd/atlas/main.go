package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/atlas-lang/atlas"
	"github.com/atlas-lang/atlas/internal/config"
)

// Set via -ldflags at build time.
var version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "atlas [file...]",
		Short:         "Evaluate atlas programs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().StringP("eval", "e", "", "evaluate the given program text")
	cmd.Flags().Bool("keep-going", false, "report failing files and continue with the rest")
	cmd.Flags().String("config", "", "YAML config file (env "+config.EnvVar+")")
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	return cmd
}

func main() {
	flag.Set("logtostderr", "true")
	flag.CommandLine.Parse([]string{})

	if err := newRootCmd().Execute(); err != nil {
		glog.Exitf("%v", err)
	}
	glog.Flush()
}

func run(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Path(path))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var r *atlas.Reducer
	if cfg.SilentPrint {
		r = atlas.NewReducer(nil)
	} else {
		r = atlas.NewReducer(out)
	}

	if cmd.Flags().Changed("eval") {
		src, _ := cmd.Flags().GetString("eval")
		v, err := r.Eval(src)
		if err != nil {
			return err
		}
		report(out, cfg, v)
		return nil
	}

	if len(args) == 0 {
		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			repl(cmd.InOrStdin(), out, cfg, r)
			return nil
		}
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		v, err := r.Eval(string(b))
		if err != nil {
			return err
		}
		report(out, cfg, v)
		return nil
	}

	keepGoing, _ := cmd.Flags().GetBool("keep-going")
	var result *multierror.Error
	for _, fn := range args {
		glog.V(1).Infof("evaluating %s", fn)
		v, err := r.EvalFile(fn)
		if err != nil {
			if !keepGoing {
				return err
			}
			result = multierror.Append(result, err)
			continue
		}
		report(out, cfg, v)
	}
	return result.ErrorOrNil()
}

func report(w io.Writer, cfg *config.Config, v atlas.Token) {
	if cfg.PrintResult {
		fmt.Fprintln(w, v)
	}
}

// repl evaluates one program per line. Errors are reported and the loop
// continues.
func repl(in io.Reader, out io.Writer, cfg *config.Config, r *atlas.Reducer) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, cfg.Prompt)
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		v, err := r.Eval(line)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		report(out, cfg, v)
	}
	if err := scanner.Err(); err != nil {
		glog.Errorf("reading input: %v", err)
	}
}
