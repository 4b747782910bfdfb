package config

import (
	"io"
	"time"
)

// Config defines methods for retrieving configuration values of various types.
// Implementations handle lookup and type conversion, returning the type's zero
// value when a key is missing or cannot be converted.
type Config interface {
	io.Closer

	// GetBool retrieves the value for the given key as a bool.
	GetBool(key string) bool

	// GetInt retrieves the value for the given key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the value for the given key as an int32.
	GetInt32(key string) int32

	// GetInt64 retrieves the value for the given key as an int64.
	GetInt64(key string) int64

	// GetFloat64 retrieves the value for the given key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value for the given key as a duration in seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value for the given key as a duration in minutes.
	GetMinute(key string) time.Duration

	// GetString retrieves the value for the given key as a string.
	GetString(key string) string

	// GetBinary retrieves the value for the given key as a byte slice.
	// The stored value is base64 encoded.
	GetBinary(key string) []byte

	// GetArray retrieves the value for the given key as a string slice.
	// The stored value uses the format <element1>,<element2>,...
	GetArray(key string) []string
}
