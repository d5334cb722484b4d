package vision

import "errors"

// ErrUnavailable возвращается, если бинарник собран без тега gocv.
var ErrUnavailable = errors.New("gocv build tag is not enabled")
