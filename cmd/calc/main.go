// Command calc is a terminal keypad for the calculator engine.
//
// Interactive use reads whitespace-separated tokens from stdin, one line at a
// time, and prints the display after each line:
//
//	$ calc
//	> 7 + 3 =
//	10
//
// With -tape, each YAML tape is replayed and the command exits non-zero if any
// checked step shows the wrong display.
package main

import (
	"flag"
	"fmt"
	"os"

	"go-chi-calculator/internal/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	var tapes stringList
	flag.Var(&tapes, "tape", "replay a YAML tape (repeatable)")
	verbose := flag.Bool("v", false, "log debug output to stderr")
	flag.Parse()

	if *verbose {
		if err := observability.InitLogger(true); err != nil {
			fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
			return 1
		}
		defer observability.SyncLogger()
	}

	if len(tapes) > 0 {
		return playTapes(os.Stdout, tapes)
	}

	if err := repl(os.Stdin, os.Stdout, isTerminal(os.Stdin)); err != nil {
		fmt.Fprintf(os.Stderr, "calc: %v\n", err)
		return 1
	}
	return 0
}

type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

