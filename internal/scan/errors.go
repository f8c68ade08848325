package scan

import "errors"

// ErrIndexOutOfRange means a caller asked for an element index outside the
// analysis. A caller error, surfaced immediately and never retried.
var ErrIndexOutOfRange = errors.New("element index out of range")
