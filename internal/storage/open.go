package storage

import "fmt"

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// Open returns the backend named by driver. path is used by the file
// backends, dsn by postgres.
func Open(driver, path, dsn string) (Repository, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryRepository(), nil
	case DriverSQLite:
		return NewSQLiteRepository(path)
	case DriverPostgres:
		return NewPostgresRepository(dsn)
	case DriverBolt:
		return NewBoltRepository(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
