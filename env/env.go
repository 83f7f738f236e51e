package env

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
)

// GetIntEnv gets an integer value from the environment and parses it
func GetIntEnv(name string, varName string) (int, error) {
	value, err := GetEnv(name, varName)
	if err != nil {
		return 0, err
	}

	asInt, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "environment variable value '%s' invalid for the %s ('%s')",
			value, name, varName)
	}

	return asInt, nil
}

// GetDurationEnv gets a duration value from the environment and parses it
func GetDurationEnv(name string, varName string) (time.Duration, error) {
	value, err := GetEnv(name, varName)
	if err != nil {
		return 0, err
	}

	asDuration, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "environment variable value '%s' invalid for the %s ('%s')",
			value, name, varName)
	}

	return asDuration, nil
}

// GetBytesEnv gets a byte size value (such as "512KB" or "1MB")
// from the environment and parses it
func GetBytesEnv(name string, varName string) (datasize.ByteSize, error) {
	value, err := GetEnv(name, varName)
	if err != nil {
		return 0, err
	}

	var size datasize.ByteSize
	err = size.UnmarshalText([]byte(value))
	if err != nil {
		return 0, errors.Wrapf(err, "environment variable value '%s' invalid for the %s ('%s')",
			value, name, varName)
	}

	return size, nil
}

// GetEnv gets a string value from the environment,
// trimming any surrounding whitespace
func GetEnv(name string, varName string) (string, error) {
	value, exists := os.LookupEnv(varName)
	if !exists {
		return "", errors.Errorf("no environment variable found for the %s ('%s')", name, varName)
	}

	return strings.TrimSpace(value), nil
}

// IsSet reports whether the variable exists and is not blank.
// Used with the getters above to fall back on defaults for optional settings
func IsSet(varName string) bool {
	value, exists := os.LookupEnv(varName)
	return exists && strings.TrimSpace(value) != ""
}
