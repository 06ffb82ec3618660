package config

import "errors"

var (
	errMissingPath = errors.New("path not configured")
	errEmpty       = errors.New("no usable entries")
)
