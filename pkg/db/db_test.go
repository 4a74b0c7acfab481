package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect_RequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Connect(Config{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://authn@localhost/authn")
	assert.Equal(t, "postgres://authn@localhost/authn", URL())
}
