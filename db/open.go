// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"strings"
)

// Open connects to the configured database. databaseType selects the
// driver: "sqlite" or anything else for postgres.
//
// sqlite allows one writer at a time; without tuning, a second writer
// fails immediately with SQLITE_BUSY and a concurrent double cast would
// surface as a generic failure instead of ErrAlreadyVoted. A busy
// timeout plus a single pooled connection makes writers queue, so the
// loser of a race reaches the normal already-voted path.
func Open(databaseType, url string) (*sql.DB, error) {
	driver := "postgres"
	if databaseType == "sqlite" {
		driver = "sqlite"
		if !strings.Contains(url, "busy_timeout") {
			sep := "?"
			if strings.Contains(url, "?") {
				sep = "&"
			}
			url += sep + "_pragma=busy_timeout(5000)"
		}
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	return conn, nil
}
