package integrationtest

import (
	"context"
	"os"
	"sync"

	"github.com/humanbelnik/pollcast/core/internal/config"
	infra_pg_init "github.com/humanbelnik/pollcast/core/internal/infra/postgres/init"
	infra_sqlite_init "github.com/humanbelnik/pollcast/core/internal/infra/sqlite/init"
	"github.com/jmoiron/sqlx"
)

var (
	cfg     *config.Config
	cfgOnce sync.Once
)

func getConfig() *config.Config {
	cfgOnce.Do(func() {
		cfg = config.FromEnv()
	})
	return cfg
}

// openDB connects to Postgres when STORAGE_DRIVER=postgres is exported and
// falls back to a private in-memory SQLite database otherwise.
func openDB() (*sqlx.DB, error) {
	if os.Getenv("STORAGE_DRIVER") == "postgres" {
		return infra_pg_init.MustEstablishConn(getConfig().Postgres), nil
	}
	return infra_sqlite_init.Open(context.Background(), ":memory:")
}
