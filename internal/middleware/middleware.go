package middleware

// contextKey is a private type for context values set by this package.
type contextKey string
