package services

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"studyCheckAPI/internal/notification"
)

// PgConnection is the slice of pgxpool.Pool the services use. pgxmock
// satisfies it too, so service tests run against an expectation pool instead
// of a database.
type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ObjectStore is the narrow slice of the managed object storage the photo
// pipeline needs: write bytes under a path, resolve the path to a public URL.
type ObjectStore interface {
	Upload(ctx context.Context, path, contentType string, r io.Reader) error
	PublicURL(path string) string
}

// PushProvider delivers best-effort push notifications to registered devices.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]string) error
}
