package catalog

import (
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testSchema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		image TEXT,
		credits INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX users_email_key ON users (email)`,
	`CREATE TABLE items (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users (id),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		price_cents INTEGER NOT NULL,
		category TEXT NOT NULL,
		images TEXT,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE bookings (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL REFERENCES items (id),
		borrower_id TEXT NOT NULL REFERENCES users (id),
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())
	silent := gormlogger.New(log.New(io.Discard, "", log.LstdFlags), gormlogger.Config{LogLevel: gormlogger.Silent})

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         silent,
		TranslateError: true,
	})
	require.NoError(t, err)

	for _, stmt := range testSchema {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
