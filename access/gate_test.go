package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateCaseInsensitive(t *testing.T) {
	g := NewGate("Admin@Example.com, ops@shophub.io")

	assert.True(t, g.IsElevated("admin@example.com"))
	assert.True(t, g.IsElevated("ADMIN@EXAMPLE.COM"))
	assert.True(t, g.IsElevated("  ops@shophub.io "))
	assert.False(t, g.IsElevated("user@example.com"))
	assert.False(t, g.IsElevated(""))
}

func TestGateEmptyList(t *testing.T) {
	g := NewGate("")
	assert.False(t, g.IsElevated("admin@example.com"))
}

func TestGateDefaultFromEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "")
	g := NewGateFromEnv()
	assert.True(t, g.IsElevated("admin@example.com"))

	t.Setenv("ADMIN_EMAILS", "boss@corp.com")
	g = NewGateFromEnv()
	assert.True(t, g.IsElevated("boss@corp.com"))
	assert.False(t, g.IsElevated("admin@example.com"))
}
