package models

import "errors"

// Custom errors
var (
	ErrMalformedRecord  = errors.New("malformed prize number")
	ErrInsufficientData = errors.New("not enough draws for the requested window")
	ErrCacheCorrupted   = errors.New("cache state is unreadable")
	ErrNotFound         = errors.New("record not found")
)
