package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/anonto42/pixgram/backend/internal/testdb"
	"github.com/anonto42/pixgram/backend/pkg/config"
)

func TestServeClosesDatabaseOnStartupError(t *testing.T) {
	gdb := testdb.Open(t)
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	cfg := &config.Config{Port: "0", MediaBackend: config.MediaGridFS}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// no Mongo connection, so the gridfs store cannot be built
	err = serve(context.Background(), cfg, logger, &config.DB{Postgres: gdb})
	if err == nil {
		t.Fatalf("expected startup error")
	}
	if err := sqlDB.Ping(); err == nil {
		t.Fatalf("database left open after startup error")
	}
}
