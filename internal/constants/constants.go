package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeySession = "session"
)

// SessionCookieName is the cookie holding the session id.
const SessionCookieName = "board_session"

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DueSoonWindow is the lookahead used to classify a task as due soon.
const DueSoonWindow = 24 * time.Hour

// DefaultStorageTimeout bounds calls to the storage collaborator.
const DefaultStorageTimeout = 5 * time.Second

// SystemActorID is recorded as the creator when no authenticated actor exists.
const SystemActorID = "system"

// MaxAIGeneratedTasks caps how many task drafts a single AI suggestion may yield.
const MaxAIGeneratedTasks = 20
