package timeline

import (
	"errors"
	"fmt"
)

// ErrIncompatibleSteps is returned by SetSteps when the replacement is
// empty or does not match the step count the controller was built with.
// The call leaves all state untouched; callers may ignore it.
var ErrIncompatibleSteps = errors.New("timeline: incompatible step replacement")

// ConfigError reports a malformed Config passed to New.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("timeline: invalid %s: %s", e.Field, e.Reason)
}
