package constants

// Context keys used to propagate the authenticated identity.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
)

// Validation limits for registration input.
const (
	MinUsernameLength = 5
	MinPasswordLength = 5
)

// Task defaults applied at creation.
const (
	DefaultTaskStatus   = "pending"
	DefaultTaskPriority = "medium"
)
