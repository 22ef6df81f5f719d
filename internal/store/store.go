package store

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"git.sr.ht/~jakintosh/today/internal/domain"
)

const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

// Store is a domain.Store the command layer can seed and release.
type Store interface {
	domain.Store
	Seed()
	Close() error
}

type options struct {
	newID  func() domain.TaskID
	logger *log.Logger
}

type Option func(*options)

// WithLogger routes mutation logs to logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIDGenerator replaces the random id source.
func WithIDGenerator(gen func() domain.TaskID) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		newID:  domain.NewTaskID,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open builds the store named by kind.
func Open(kind string, opts ...Option) (Store, error) {
	switch kind {
	case KindMemory, "":
		return NewTaskListStore(opts...), nil
	case KindSQLite:
		return NewSQLiteStore(opts...)
	default:
		return nil, fmt.Errorf("unknown store %q", kind)
	}
}
