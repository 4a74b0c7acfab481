package main

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/conjur-authn/pkg/config"
	"github.com/doodlesbykumbi/conjur-authn/pkg/password"
	gormstore "github.com/doodlesbykumbi/conjur-authn/pkg/server/store/gorm"
)

func TestMigrationsURL(t *testing.T) {
	assert.Equal(t, "", migrationsURL(""))
	assert.Equal(t,
		"postgres://localhost/authn?x-migrations-table=authn_schema_migrations",
		migrationsURL("postgres://localhost/authn"))
	assert.Equal(t,
		"postgres://localhost/authn?sslmode=disable&x-migrations-table=authn_schema_migrations",
		migrationsURL("postgres://localhost/authn?sslmode=disable"))
}

func TestStatusURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8000/", statusURL("localhost", 8000, ""))
	assert.Equal(t, "http://localhost:8000/authn-jwt/status", statusURL("localhost", 8000, "authn-jwt"))
}

func TestReadPassword(t *testing.T) {
	got, err := readPassword(strings.NewReader("s3cret\r\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	got, err = readPassword(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", got)
}

func TestNewUser(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().StringSlice("authority", nil, "")
	cmd.Flags().Int("cost", 4, "")
	cmd.Flags().Bool("disabled", false, "")
	cmd.Flags().Bool("locked", false, "")
	cmd.Flags().Bool("expired", false, "")
	cmd.Flags().Bool("credentials-expired", false, "")
	require.NoError(t, cmd.Flags().Set("authority", "ROLE_admin,user:read,ROLE_admin"))
	require.NoError(t, cmd.Flags().Set("locked", "true"))

	user, err := newUser(cmd, "alice", "s3cret")
	require.NoError(t, err)

	assert.NotEmpty(t, user.UserID)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.Enabled)
	assert.True(t, user.Locked)
	assert.Equal(t, []string{"ROLE_admin", "user:read"}, user.AuthorityNames())
	for _, a := range user.Authorities {
		assert.Equal(t, user.UserID, a.UserID)
	}
	assert.True(t, strings.HasPrefix(user.PasswordHash, "{bcrypt}"))
	assert.True(t, password.NewDelegatingVerifier().Matches("s3cret", user.PasswordHash))

	_, err = newUser(cmd, "alice", "")
	assert.Error(t, err)
}

func TestBuildRegistry(t *testing.T) {
	users := gormstore.NewUserStore(nil)

	t.Run("password only", func(t *testing.T) {
		cfg := &config.AuthnConfig{Authenticators: []string{"authn"}, CheckExpiry: true}

		registry, err := buildRegistry(context.Background(), cfg, users)
		require.NoError(t, err)
		assert.Equal(t, []string{"authn"}, registry.Installed())
		assert.Equal(t, []string{"authn"}, registry.Enabled())
	})

	t.Run("with token keys", func(t *testing.T) {
		cfg := &config.AuthnConfig{
			Authenticators: []string{"authn", "authn-jwt"},
			CheckExpiry:    true,
			JWTHMACSecret:  "secret",
		}

		registry, err := buildRegistry(context.Background(), cfg, users)
		require.NoError(t, err)
		assert.Equal(t, []string{"authn", "authn-jwt"}, registry.Enabled())
	})

	t.Run("enabled without keys", func(t *testing.T) {
		cfg := &config.AuthnConfig{Authenticators: []string{"authn-jwt"}}

		_, err := buildRegistry(context.Background(), cfg, users)
		assert.Error(t, err)
	})

	t.Run("bad inline keys", func(t *testing.T) {
		cfg := &config.AuthnConfig{Authenticators: []string{"authn-jwt"}, JWTPublicKeys: "not json"}

		_, err := buildRegistry(context.Background(), cfg, users)
		assert.Error(t, err)
	})
}
