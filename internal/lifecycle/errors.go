package lifecycle

import (
	"errors"
	"fmt"
)

// ErrNotReady rejects a connect attempted while the coordinator is anywhere
// but StateReady. In-flight attempts are never superseded; callers retry
// once the coordinator is back in StateReady.
var ErrNotReady = errors.New("not ready to connect")

// SetupError wraps a render setup stage failure. It is fatal: the
// coordinator lands on StateErrorShown and stays there.
type SetupError struct {
	Stage SetupStage
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setting up %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
