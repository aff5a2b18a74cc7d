package tape

import "errors"

// ErrBlockLength is returned by Process when the four channel slices do not
// share one length.
var ErrBlockLength = errors.New("tape: input and output blocks differ in length")
