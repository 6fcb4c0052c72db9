package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/zephyrtronium/unitcalc"
)

func main() {
	var (
		exprs   []string
		prec    uint
		compat  bool
		locale  string
		echo    bool
		human   bool
		verbose bool
	)
	flag.Func("e", "expression to evaluate (any number of times)", func(s string) error {
		exprs = append(exprs, s)
		return nil
	})
	flag.UintVar(&prec, "p", 0, "precision of calculations in bits (0 for config default)")
	flag.BoolVar(&compat, "compat", false, "use the reduced, units-compatible builtin table")
	flag.StringVar(&locale, "locale", "", "BCP 47 locale for approximations (overrides config)")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&human, "human", false, "also print a locale-grouped approximation")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := readConfig(log)
	if prec != 0 {
		cfg.Precision = prec
	}
	if compat {
		cfg.Compat = true
	}
	if locale != "" {
		cfg.Locale = locale
	}

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		log.Warn("bad locale, using en", slog.String("locale", cfg.Locale))
		tag = language.English
	}
	s := session{
		scope:   unitcalc.DefaultScope(cfg.Precision),
		opts:    unitcalc.Options{Compat: cfg.Compat, Prec: cfg.Precision},
		printer: message.NewPrinter(tag),
		log:     log,
		echo:    echo,
		human:   human,
	}

	args := append(exprs, flag.Args()...)
	if len(args) > 0 {
		code := 0
		for _, src := range args {
			if err := s.line(src); err != nil {
				fmt.Fprintln(os.Stderr, err)
				code = 1
			}
		}
		os.Exit(code)
	}
	s.repl(cfg.Prompt)
}

// readConfig locates and loads the configuration file. A missing or broken
// file leaves the defaults in effect.
func readConfig(log *slog.Logger) config {
	path, err := configPath()
	if err != nil {
		log.Debug("no config dir", slog.Any("err", err))
		return defaultConfig()
	}
	cfg, err := loadConfig(path)
	if err != nil {
		log.Warn("bad config", slog.String("path", path), slog.Any("err", err))
		return cfg
	}
	log.Debug("config loaded", slog.String("path", path))
	return cfg
}

type session struct {
	scope   *unitcalc.Scope
	opts    unitcalc.Options
	printer *message.Printer
	log     *slog.Logger
	echo    bool
	human   bool
}

func (s *session) repl(prompt string) {
	var hist io.WriteCloser
	if path, err := historyPath(); err != nil {
		s.log.Debug("no history", slog.Any("err", err))
	} else {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			s.log.Warn("cannot open history", slog.String("path", path), slog.Any("err", err))
		} else {
			hist = f
			defer f.Close()
		}
	}
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt)
		if !in.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return
		}
		if hist != nil {
			fmt.Fprintln(hist, line)
		}
		if err := s.line(line); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Println("interrupted")
				continue
			}
			fmt.Println("error:", err)
		}
	}
}

// line evaluates one input line, binding the result if the line is an
// assignment. SIGINT cancels the evaluation without ending the session.
func (s *session) line(src string) error {
	name, expr, assign := splitAssign(src)
	if !assign {
		expr = src
	}
	e, err := unitcalc.ParseString(expr)
	if err != nil {
		return err
	}
	if s.echo {
		fmt.Printf("%v : ", e)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	v, err := unitcalc.Evaluate(ctx, e, s.scope, s.opts)
	if err != nil {
		return err
	}
	if assign {
		s.scope.Set(name, v)
		fmt.Printf("%s = %v\n", name, v)
		return nil
	}
	fmt.Println(v)
	if s.human {
		if n, ok := v.Num(); ok {
			if f, ok := n.Float64(); ok {
				s.printer.Printf("≈ %v\n", number.Decimal(f))
			}
		}
	}
	return nil
}

// splitAssign splits "name = expr" lines. The left side must be a single
// plausible identifier for the line to count as an assignment.
func splitAssign(src string) (name, expr string, ok bool) {
	i := strings.IndexByte(src, '=')
	if i < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(src[:i])
	expr = strings.TrimSpace(src[i+1:])
	if name == "" || expr == "" || !isIdent(name) {
		return "", "", false
	}
	return name, expr, true
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r), r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '.'):
		default:
			return false
		}
	}
	return true
}
