package dbproto

import "errors"

// ErrParse is returned when a response envelope fails to decode.
var ErrParse = errors.New("envelope parse error")
