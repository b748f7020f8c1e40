package engine

import (
	"fmt"
	"time"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// outcome carries what a script evaluation produced back to Evaluate.
type outcome struct {
	result *Result
	errors []EvalError
	err    error
}

// await blocks until the evaluation of generation gen reports on ch or the
// engine's timeout expires. An outcome from a generation that is no longer
// current is dropped, so its scratch registry is never merged.
//
// A timed out evaluation keeps running in the background. It owns only its
// scratch registry, which is discarded with it.
func (e *Engine) await(ch <-chan outcome, gen uint64) (*Result, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case out := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()
		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return out.result, out.errors, out.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", e.timeout)
	}
}
