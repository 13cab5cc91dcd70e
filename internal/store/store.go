package store

import "context"

// Keys under which engine state is persisted. Each value is a JSON string,
// mirroring the browser localStorage layout this engine replaces.
const (
	KeyCards           = "cards"
	KeyProgress        = "progress"
	KeyActiveTag       = "active_tag"
	KeySessionID       = "session_id"
	KeyProgressVersion = "progress_version"
	KeyCardStats       = "card_stats"
	KeyQuizHistory     = "quiz_history"
)

// KV is the durable key-value store every component persists through.
// Get reports whether the key exists; a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
