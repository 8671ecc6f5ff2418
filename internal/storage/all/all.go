// Package all registers every sink backend with the storage factory.
// The job config selects which one to use at runtime, so the binary builds
// in support for all of them.
package all

import (
	_ "prodlens/internal/storage/mssql"
	_ "prodlens/internal/storage/postgres"
	_ "prodlens/internal/storage/sqlite"
)
