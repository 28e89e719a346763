package session

import "context"

// Storage field names, kept bit-compatible with the browser build of the
// console so a snapshot written by either can be read by both.
const (
	keyToken     = "token"
	keyTokenType = "token_type"
	keyRole      = "role"
	keyName      = "name"
	keyID        = "id"
	keyRoleID    = "rolId"
)

// Backend persists the session snapshot across restarts. Load returns
// (nil, nil) when no snapshot exists; Clear is a no-op in that case.
type Backend interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, snapshot map[string]string) error
	Clear(ctx context.Context) error
}
