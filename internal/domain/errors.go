package domain

import "errors"

// Each fatal condition of a run wraps exactly one of these.
var (
	ErrConfig      = errors.New("configuration error")
	ErrEnvironment = errors.New("environment error")
	ErrRegistry    = errors.New("table registry error")
	ErrEnumerate   = errors.New("table enumeration failed")
	ErrDump        = errors.New("table dump failed")
	ErrPostProcess = errors.New("post-processing failed")
)
