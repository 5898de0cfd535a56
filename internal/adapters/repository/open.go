package repository

import (
	"context"
	"fmt"
)

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open builds the store named by driver. path is ignored for the memory
// driver.
func Open(ctx context.Context, driver, path string, opts ...Option) (Store, error) {
	switch driver {
	case DriverFile:
		return NewFileStore(path, opts...), nil
	case DriverSQLite:
		return NewSQLiteStore(ctx, path, opts...)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
