// Package engine provides the scene scripting engine for physalis.
// It wraps zygomys in a sandboxed environment and records a Program of
// scene operations from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/physalis/pkg/logging"
	zygo "github.com/glycerine/zygomys/zygo"
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

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
	log        logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for evaluation failures.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = logging.OrNop(l) }
}

// WithTimeout overrides EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout, log: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate takes Lisp source code and records the scene operations it
// performs. Each call creates a fresh zygomys sandbox for deterministic
// evaluation.
//
// Return semantics:
//   - On success: returns program + nil errors + nil error
//   - On parse/eval failure: returns nil program + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Program, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		p, evalErrs, err := e.evaluate(source)
		ch <- evalResult{program: p, errors: evalErrs, err: err}
	}()

	p, evalErrs, err := waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout)
	switch {
	case err != nil:
		e.log.Errorf("evaluation failed: %v", err)
	case len(evalErrs) > 0:
		e.log.Warnf("evaluation reported %d error(s): %v", len(evalErrs), evalErrs[0])
	default:
		e.log.Debugf("evaluation recorded %d op(s)", len(p.Ops))
	}
	return p, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Program, []EvalError, error) {
	// Empty source is a valid program with no operations.
	if strings.TrimSpace(source) == "" {
		return &Program{}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	p := &Program{}
	registerBuiltins(env, p)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return p, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?is)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?is)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
