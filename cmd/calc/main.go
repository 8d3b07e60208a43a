package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/config"
	"github.com/zephyrtronium/calc/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run evaluates every formula named by args and returns the exit code: 0 when
// all formulas succeed, 1 when any fails, 2 for usage or I/O errors.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := config.LoadOrDefault()
	var (
		inname        string
		echo, verbose bool
		prec          int
	)
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&inname, "in", "", "file of formulas, one per line (- for stdin; default stdin if no args given)")
	fs.IntVar(&prec, "p", int(cfg.Eval.DivPrec), "fractional digits kept by non-terminating divisions")
	fs.BoolVar(&echo, "echo", false, "print parse trees")
	fs.BoolVar(&verbose, "v", false, "log each evaluation")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if prec < 0 {
		fmt.Fprintf(stderr, "precision (%d) must not be negative\n", prec)
		return 2
	}
	if prec > math.MaxInt32 {
		fmt.Fprintf(stderr, "precision (%d) is too large\n", prec)
		return 2
	}

	lc := logging.Config{Level: "warn", Development: true}
	if verbose {
		lc.Level = "debug"
	}
	logger, err := logging.New(lc)
	if err != nil {
		logger = logging.NewNop()
	}
	defer logger.Sync()

	formulas := lo.Filter(fs.Args(), func(s string, _ int) bool {
		return strings.TrimSpace(s) != ""
	})
	e := evaluator{
		ctx:    calc.NewContext(calc.DivPrec(int32(prec))),
		out:    stdout,
		logger: logger,
		echo:   echo,
	}

	in, err := infile(inname, stdin, fs.NArg() == 0)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if in != nil {
		defer in.Close()
		prompt := ""
		if inname == "" || inname == "-" {
			if isInteractive(stdin) {
				prompt = "> "
			}
		}
		if err := e.lines(in, prompt); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}
	for _, f := range formulas {
		e.eval(f)
	}

	if e.failed > 0 {
		logger.Debug("Some formulas failed", zap.Int("failed", e.failed), zap.Int("total", e.total))
		return 1
	}
	return 0
}

type evaluator struct {
	ctx    *calc.Context
	out    io.Writer
	logger *logging.Logger
	echo   bool

	total  int
	failed int
}

// lines evaluates each non-blank line of in.
func (e *evaluator) lines(in io.Reader, prompt string) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(e.out, prompt)
	for sc.Scan() {
		if line := sc.Text(); strings.TrimSpace(line) != "" {
			e.eval(line)
		}
		fmt.Fprint(e.out, prompt)
	}
	if prompt != "" {
		fmt.Fprintln(e.out)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading formulas: %w", err)
	}
	return nil
}

func (e *evaluator) eval(src string) {
	e.total++
	a, err := calc.Parse(src)
	if err != nil {
		e.fail(src, err)
		return
	}
	if e.echo {
		fmt.Fprintf(e.out, "%v : ", a)
	}
	r, err := e.ctx.Eval(a)
	if err != nil {
		e.fail(src, err)
		return
	}
	s := calc.Canonical(r)
	e.logger.Debug("Evaluated formula", logging.Formula(src), zap.String("result", s))
	fmt.Fprintln(e.out, s)
}

func (e *evaluator) fail(src string, err error) {
	e.failed++
	e.logger.Debug("Formula failed", logging.Formula(src), zap.Stringer("kind", calc.KindOf(err)), zap.Error(err))
	fmt.Fprintf(e.out, "error: %v\n", err)
}

// infile opens the input named by inname. With no name, it uses stdin only
// when std is true. The result is nil when there is nothing to read.
func infile(inname string, stdin io.Reader, std bool) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, fmt.Errorf("opening formulas: %w", err)
		}
		return f, nil
	case inname == "-", std:
		if stdin == nil {
			return nil, errors.New("no standard input")
		}
		return io.NopCloser(stdin), nil
	}
	return nil, nil
}

// isInteractive reports whether r is a terminal.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
