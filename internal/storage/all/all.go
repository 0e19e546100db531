// Package all registers every storage backend with the factory. Binaries
// blank-import it so the configured kind decides the backend at runtime.
package all

import (
	_ "salesdw/internal/storage/mssql"
	_ "salesdw/internal/storage/postgres"
	_ "salesdw/internal/storage/sqlite"
)
