package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/answerkey"
)

type evalFlags struct {
	inname string
	verb   string
	given  []string
	nl     bool
	echo   bool
}

func newEvalCmd(a *app) *cobra.Command {
	var fl evalFlags
	cmd := &cobra.Command{
		Use:   "eval [formula...]",
		Short: "Evaluate formulas",
		Long: `Evaluates formulas given as arguments, or read from --in or standard input
when there are no arguments, and prints each result.

Variables are defined with --given name=value. A value may itself be a formula
over the variables defined before it.`,
		Example: `  answerkey eval --given r=2 'pi*r^2'
  printf '1+1\n2*3\n' | answerkey eval -n`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.eval(cmd, args, &fl)
		},
	}
	f := cmd.Flags()
	f.StringVar(&fl.inname, "in", "", "input file (default stdin if no args given)")
	f.StringVar(&fl.verb, "fmt", "%g", "result formatting string")
	f.StringArrayVar(&fl.given, "given", nil, "name=value variable definition (any number of times)")
	f.BoolVarP(&fl.nl, "lines", "n", false, "evaluate separate input lines as separate formulas")
	f.BoolVar(&fl.echo, "echo", false, "print formulas with variables substituted")
	f.UintP("precision", "p", answerkey.DefaultPrecision, "precision of calculations in bits")
	f.Bool("strict-pi", false, "treat a bare pi as a variable name; only pi() is π")
	return cmd
}

func (a *app) eval(cmd *cobra.Command, args []string, fl *evalFlags) error {
	e, err := answerkey.NewEvaluator(a.cfg.EvaluatorOptions()...)
	if err != nil {
		return err
	}
	vars := new(answerkey.VarMap)
	for _, d := range fl.given {
		name, val, ok := strings.Cut(d, "=")
		if !ok {
			return errors.Errorf(`variable definitions must be "name=value", not %q`, d)
		}
		name = strings.TrimSpace(name)
		r, err := e.Evaluate(strings.TrimSpace(val), vars)
		if err != nil {
			return errors.Wrapf(err, "setting %s", name)
		}
		vars.Set(name, r)
	}

	formulas := append([]string(nil), args...)
	if fl.inname != "" || len(args) == 0 {
		src, err := readInput(fl.inname, cmd.InOrStdin())
		if err != nil {
			return err
		}
		formulas = append(formulas, split(src, fl.nl)...)
	}

	out := cmd.OutOrStdout()
	verb := fl.verb + "\n"
	for _, f := range formulas {
		if fl.echo {
			fmt.Fprintf(out, "%s : ", answerkey.Rewrite(f, vars))
		}
		r, err := e.Evaluate(f, vars)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintf(out, verb, r)
	}
	return nil
}

// readInput reads all of the named file, or stdin if the name is empty or -.
func readInput(name string, stdin io.Reader) (string, error) {
	var r io.Reader = stdin
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return "", errors.Wrap(err, "opening input")
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return "", errors.Wrap(err, "reading input")
	}
	return string(b), nil
}

// split divides input into formulas: one per non-blank line if lines is set,
// otherwise the whole input unless it is blank.
func split(src string, lines bool) []string {
	var parts []string
	if lines {
		parts = strings.Split(src, "\n")
	} else {
		parts = []string{src}
	}
	r := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			r = append(r, p)
		}
	}
	return r
}
