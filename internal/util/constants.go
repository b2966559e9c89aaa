package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// Roles carried in JWT claims.
const (
	RoleAuthor     = "author"
	RoleRespondent = "respondent"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Context keys set by middleware.
const (
	ContextUser   = "user"
	ContextConfig = "config"
)
