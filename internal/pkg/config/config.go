package config

import (
	"io"
	"time"
)

// Config defines the lookups the application performs against its configuration.
//
// Implementations must tolerate missing keys and return the zero value for
// the requested type, so callers can fall back to their own defaults.
type Config interface {
	io.Closer

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetInt retrieves the value associated with key as an int.
	GetInt(key string) int

	// GetFloat64 retrieves the value associated with key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value associated with key interpreted as seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with key interpreted as minutes.
	GetMinute(key string) time.Duration

	// GetArray retrieves the value associated with key as a slice of strings.
	// Configuration value is stored with format <element1>,<element2>,...
	GetArray(key string) []string

	// GetMap retrieves the value associated with key as a map of strings to strings.
	// Configuration value is stored with format <key1>:<value1>,<key2>:<value2>,...
	GetMap(key string) map[string]string
}
