package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default resource limits enforced by the builtin modules.
const (
	DefaultMaxAllocBytes = 100 * 1024 * 1024 // memory.create_buffer ceiling
	DefaultMaxReadBytes  = 10 * 1024 * 1024  // binary.read_bytes ceiling
	DefaultHTTPTimeout   = 30 * time.Second  // bounds socket I/O, never joins
)

// Registry kind names, used in handle error messages.
const (
	KindFile    = "file"
	KindProcess = "process"
	KindThread  = "thread"
	KindMutex   = "mutex"
	KindBuffer  = "buffer"
	KindNode    = "node"
	KindSymtab  = "symbol table"
	KindDB      = "database"
	KindGrpc    = "grpc connection"
)

// Limits holds the tunable runtime limits. The zero value is not usable;
// call DefaultLimits.
type Limits struct {
	MaxAllocBytes int64         `yaml:"max_alloc_bytes"`
	MaxReadBytes  int64         `yaml:"max_read_bytes"`
	HTTPTimeout   time.Duration `yaml:"-"`
}

// limitsFile mirrors Limits with the timeout as a string so config files
// can say "30s" instead of nanoseconds.
type limitsFile struct {
	MaxAllocBytes int64  `yaml:"max_alloc_bytes"`
	MaxReadBytes  int64  `yaml:"max_read_bytes"`
	HTTPTimeout   string `yaml:"http_timeout"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxAllocBytes: DefaultMaxAllocBytes,
		MaxReadBytes:  DefaultMaxReadBytes,
		HTTPTimeout:   DefaultHTTPTimeout,
	}
}

// LoadLimits reads limits from a YAML file. Missing keys keep their
// defaults.
func LoadLimits(path string) (Limits, error) {
	limits := DefaultLimits()
	data, err := os.ReadFile(path)
	if err != nil {
		return limits, err
	}
	var file limitsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return limits, err
	}
	if file.MaxAllocBytes > 0 {
		limits.MaxAllocBytes = file.MaxAllocBytes
	}
	if file.MaxReadBytes > 0 {
		limits.MaxReadBytes = file.MaxReadBytes
	}
	if file.HTTPTimeout != "" {
		d, parseErr := time.ParseDuration(file.HTTPTimeout)
		if parseErr != nil {
			return limits, fmt.Errorf("invalid http_timeout: %w", parseErr)
		}
		if d > 0 {
			limits.HTTPTimeout = d
		}
	}
	return limits, nil
}
