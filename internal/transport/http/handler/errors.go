package handler

const (
	errInternalServer   = "Internal server error"
	errStoreUnavailable = "Service temporarily unavailable, please try again"

	errInvalidCredentials = "Invalid email or password"
	errEmailTaken         = "An account with this email already exists"

	errUserNotFound   = "User not found"
	errLessonNotFound = "Lesson not found"
	errNoAPIKey       = "No generative API key is configured for this account"

	// Redemption terminal messages. Each outcome gets its own text so the
	// outcome screen is never ambiguous.
	errTokenNotFound = "Invalid or unknown login token."
	errTokenExpired  = "This login token has expired."
	errTokenUsed     = "This login token has already been used."
	errTokenAuth     = "Invalid login credentials. The password may have changed; contact the administrator."
)
