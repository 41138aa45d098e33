package basicpitch

import (
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/storage"
)

// ErrNotFound mirrors the storage sentinel so callers do not have to
// import the storage package.
var ErrNotFound = storage.ErrNotFound

// NewSQLiteStorage opens the SQLite backend at dbPath.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return db, nil
}
