// Package tape replays recorded key sequences through the engine and checks
// the display after each step.
//
// A tape is YAML:
//
//	name: addition
//	steps:
//	  - keys: ["7", "+", "3", "="]
//	    expect: "10"
//	  - keys: "AC 5 %"
//	    expect: "0.05"
//
// keys is either a list or a single whitespace-separated string. Quote "*"
// in lists, YAML reads a bare * as an alias.
package tape

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"go-chi-calculator/internal/engine"
)

var ErrNoSteps = errors.New("tape has no steps")

// Tape is a named sequence of steps played from the identity state.
type Tape struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is a batch of keys and, optionally, the display expected after them.
type Step struct {
	Keys   Keys    `yaml:"keys"`
	Expect *string `yaml:"expect,omitempty"`
}

// Keys accepts either a YAML sequence of tokens or one string of
// whitespace-separated tokens.
type Keys []string

func (k *Keys) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*k = strings.Fields(node.Value)
		return nil
	case yaml.SequenceNode:
		var tokens []string
		if err := node.Decode(&tokens); err != nil {
			return err
		}
		*k = tokens
		return nil
	}
	return fmt.Errorf("line %d: keys must be a string or a list", node.Line)
}

// Load decodes a tape from r.
func Load(r io.Reader) (Tape, error) {
	var t Tape
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return Tape{}, ErrNoSteps
		}
		return Tape{}, fmt.Errorf("decode tape: %w", err)
	}
	if len(t.Steps) == 0 {
		return Tape{}, ErrNoSteps
	}
	return t, nil
}

// LoadFile reads and decodes the tape at path.
func LoadFile(path string) (Tape, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tape{}, fmt.Errorf("open tape: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return Tape{}, fmt.Errorf("%s: %w", path, err)
	}
	if t.Name == "" {
		t.Name = path
	}
	return t, nil
}

// Result is the outcome of one step.
type Result struct {
	Index   int
	Keys    []string
	Display string
	Expect  string
	Checked bool
	OK      bool
}

// Report is the outcome of a whole tape.
type Report struct {
	Name    string
	Results []Result
	Final   engine.State
}

// Failed returns the checked steps whose display did not match.
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Checked && !res.OK {
			failed = append(failed, res)
		}
	}
	return failed
}

// Play runs every step in order from the identity state.
func (t Tape) Play() Report {
	rep := Report{Name: t.Name, Results: make([]Result, 0, len(t.Steps))}

	state := engine.New()
	for i, step := range t.Steps {
		state = engine.Run(state, step.Keys...)

		res := Result{Index: i, Keys: step.Keys, Display: state.Display(), OK: true}
		if step.Expect != nil {
			res.Checked = true
			res.Expect = *step.Expect
			res.OK = res.Display == res.Expect
		}
		rep.Results = append(rep.Results, res)
	}

	rep.Final = state
	return rep
}
