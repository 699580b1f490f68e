package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/tape"
)

// repl applies each input line's tokens to one running state and writes the
// display after every line. "quit" or EOF ends the session.
func repl(in io.Reader, out io.Writer, prompt bool) error {
	state := engine.New()
	scanner := bufio.NewScanner(in)

	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}

		for _, tok := range strings.Fields(line) {
			tr := engine.Step(state, tok)
			state = tr.Next

			if tr.Class == engine.ClassUnknown {
				observability.Logger.Debug("ignored token", zap.String("token", tok))
			}
			if tr.Fallback {
				observability.Logger.Debug("arithmetic fallback", zap.String("token", tok))
			}
		}

		fmt.Fprintln(out, state.Display())
	}
}

// playTapes replays every tape and returns the process exit code.
func playTapes(out io.Writer, paths []string) int {
	code := 0

	for _, path := range paths {
		t, err := tape.LoadFile(path)
		if err != nil {
			observability.Logger.Error("loading tape", zap.String("path", path), zap.Error(err))
			fmt.Fprintf(out, "ERROR %s: %v\n", path, err)
			code = 1
			continue
		}

		rep := t.Play()
		failed := rep.Failed()
		for _, res := range failed {
			fmt.Fprintf(out, "FAIL %s step %d %v: want %q, got %q\n",
				rep.Name, res.Index, res.Keys, res.Expect, res.Display)
		}

		if len(failed) > 0 {
			code = 1
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d steps, display %q)\n", rep.Name, len(rep.Results), rep.Final.Display())
	}

	return code
}
