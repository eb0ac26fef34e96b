package config

import "errors"

var (
	// ErrInvalidConfig wraps every Validate failure; the wrapped text names
	// the offending key.
	ErrInvalidConfig = errors.New("ffebridge config: invalid value")
	// ErrLoadConfig wraps failures reading the dotenv file, the config file
	// or the FFEBRIDGE_ environment.
	ErrLoadConfig = errors.New("ffebridge config: cannot load")
)
