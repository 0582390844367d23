// Package all registers every storage backend with the factory. The binary
// imports it for side effects; config selects which backend actually runs.
package all

import (
	_ "eqingest/internal/storage/mysql"
	_ "eqingest/internal/storage/postgres"
	_ "eqingest/internal/storage/sqlite"
)
