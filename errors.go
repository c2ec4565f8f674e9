package texlsp

import "errors"

// Sentinel errors.
var (
	ErrUnknownLanguage         = errors.New("unknown language")
	ErrConfigNotFound          = errors.New("config file not found")
	ErrUnsupportedConfigFormat = errors.New("unsupported config format")
)
