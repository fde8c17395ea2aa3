package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(envOr("JWT_SECRET", "your_secret_key"))

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const EmailKey ContextKey = "email"

var Ctx = context.Background()

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
