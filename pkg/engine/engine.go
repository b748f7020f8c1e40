// Package engine evaluates assembly scripts written in a small Lisp DSL.
// It wraps zygomys in a sandboxed environment; scripts declare costed parts,
// instantiate them, and combine the geometry into a CSG tree.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/cadbom/pkg/bom"
	"github.com/chazu/cadbom/pkg/csg"
	zygo "github.com/glycerine/zygomys/zygo"
	"go.uber.org/zap"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result is the output of a successful evaluation.
type Result struct {
	// Root is the tree declared by (assembly ...), or nil if the script
	// declared none.
	Root *csg.Node
	// Name is the assembly name.
	Name string
}

// Engine wraps the zygomys interpreter for assembly scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	log        *zap.Logger
	timeout    time.Duration
	run        runFunc
}

// runFunc evaluates source against a scratch registry.
type runFunc func(source string, scratch *bom.Registry) (*Result, []EvalError, error)

// NewEngine creates a new Engine instance. A nil logger disables logging.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{log: log, timeout: EvalTimeout}
	e.run = e.evaluate
	return e
}

// Evaluate runs an assembly script. Part declarations and usages made by the
// script are recorded in a scratch registry and merged into reg only once
// the evaluation has completed and is still current, so a timed out script
// never touches reg.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string, reg *bom.Registry) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan outcome, 1)
	scratch := bom.NewRegistry(
		bom.WithLogger(e.log),
		bom.WithDefaultCurrency(reg.DefaultCurrency()),
	)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.run(source, scratch)
		ch <- outcome{result: res, errors: evalErrs, err: err}
	}()

	res, evalErrs, err := e.await(ch, gen)
	if err != nil || len(evalErrs) > 0 {
		return nil, evalErrs, err
	}
	if err := reg.Merge(scratch); err != nil {
		return nil, nil, fmt.Errorf("recording parts: %w", err)
	}
	e.log.Debug("script evaluated",
		zap.String("assembly", res.Name),
		zap.Int("parts", scratch.Len()),
		zap.Int("nodes", csg.Count(res.Root)),
	)
	return res, nil, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string, reg *bom.Registry) (*Result, []EvalError, error) {
	// Empty source is a valid program that declares nothing.
	if strings.TrimSpace(source) == "" {
		return &Result{}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	res := &Result{}
	registerBuiltins(env, reg, res)

	// Load and compile the source string into bytecode.
	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}

	// Execute the compiled bytecode.
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	return res, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
