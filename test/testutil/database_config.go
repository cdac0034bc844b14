package testutil

import (
	"net/url"
	"os"
)

// defaultImage is the PostgreSQL image started when no external server is
// configured.
const defaultImage = "postgres:18-alpine"

// DatabaseConfig selects the server integration tests run against.
type DatabaseConfig struct {
	// URL of an external server with rights to create databases. Empty
	// means a container is started from Image.
	URL   string
	Image string
}

// GetDatabaseConfig reads the test server from the environment.
//
// OFL_TEST_DATABASE_URL, or DATABASE_URL, names an external server. Without
// either, a server described by the libpq variables PGHOST, PGPORT, PGUSER,
// PGPASSWORD and PGSSLMODE is used when PGHOST is set. OFL_TEST_POSTGRES_IMAGE
// overrides the container image.
func GetDatabaseConfig() DatabaseConfig {
	cfg := DatabaseConfig{Image: lookup(defaultImage, "OFL_TEST_POSTGRES_IMAGE")}

	if dsn := lookup("", "OFL_TEST_DATABASE_URL", "DATABASE_URL"); dsn != "" {
		cfg.URL = dsn
		return cfg
	}
	if host := os.Getenv("PGHOST"); host != "" {
		cfg.URL = libpqURL(host)
	}
	return cfg
}

// libpqURL builds a connection URL for host from the remaining PG*
// variables. The postgres maintenance database is always used; tests
// create their own databases next to it.
func libpqURL(host string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   host + ":" + lookup("5432", "PGPORT"),
		Path:   "/postgres",
	}
	user := lookup("postgres", "PGUSER")
	if password := os.Getenv("PGPASSWORD"); password != "" {
		u.User = url.UserPassword(user, password)
	} else {
		u.User = url.User(user)
	}
	u.RawQuery = url.Values{"sslmode": {lookup("prefer", "PGSSLMODE")}}.Encode()
	return u.String()
}

// lookup returns the first non-empty variable among keys, or fallback.
func lookup(fallback string, keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return fallback
}
