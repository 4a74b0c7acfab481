package integration

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator/authn_jwt"
	"github.com/doodlesbykumbi/conjur-authn/pkg/config"
	"github.com/doodlesbykumbi/conjur-authn/pkg/db"
	"github.com/doodlesbykumbi/conjur-authn/pkg/password"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/conjur-authn/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/conjur-authn/pkg/token"
)

const (
	testIssuer = "authn-integration"
	testKeyID  = "integration-key-1"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	Users       *gormstore.UserStore
	Container   testcontainers.Container
	Server      *httptest.Server
	DatabaseURL string
	SigningKey  *rsa.PrivateKey
	HTTPClient  *http.Client
}

// NewTestContext starts a PostgreSQL testcontainer, migrates it, and serves
// both authenticators in-process against it.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("authn_test"),
		tcpostgres.WithUsername("authn"),
		tcpostgres.WithPassword("authn"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(filepath.Join(projectRoot, "db", "migrations"), connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	gormDB, err := db.Connect(db.Config{URL: connStr})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	signingKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	users := gormstore.NewUserStore(gormDB)
	s, err := newServer(gormDB, users, &signingKey.PublicKey)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	return &TestContext{
		DB:          gormDB,
		Users:       users,
		Container:   pgContainer,
		Server:      httptest.NewServer(s.Handler()),
		DatabaseURL: connStr,
		SigningKey:  signingKey,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func newServer(gormDB *gorm.DB, users *gormstore.UserStore, pub *rsa.PublicKey) (*server.Server, error) {
	keys := token.NewKeySet()
	if err := keys.LoadInline(jwksDocument(pub)); err != nil {
		return nil, err
	}
	resolver, err := token.NewResolver(token.Config{
		Issuer:       testIssuer,
		Keys:         keys,
		ClaimMapping: map[string]string{"groups": "roles"},
	})
	if err != nil {
		return nil, err
	}

	registry := authenticator.NewRegistry()
	registry.Register(authn.New(users, password.NewDelegatingVerifier()))
	registry.Register(authn_jwt.New(resolver, authn_jwt.WithAccountStatusSource(users)))
	for _, name := range []string{"authn", "authn-jwt"} {
		if err := registry.Enable(name); err != nil {
			return nil, err
		}
	}

	cfg := &config.AuthnConfig{Authenticators: registry.Enabled(), CheckExpiry: true}
	s := server.NewServer(registry, cfg, gormstore.NewHealthStore(gormDB), "127.0.0.1", "0")
	endpoints.RegisterAll(s)
	return s, nil
}

func jwksDocument(pub *rsa.PublicKey) string {
	jwks := map[string]interface{}{
		"keys": []map[string]interface{}{
			{
				"kty": "RSA",
				"kid": testKeyID,
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}
	body, _ := json.Marshal(jwks)
	return fmt.Sprintf(`{"type":"jwks","value":%s}`, body)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Server != nil {
		tc.Server.Close()
	}
	if tc.DB != nil {
		if sqlDB, err := tc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// Reset empties the user tables between scenarios
func (tc *TestContext) Reset() error {
	return tc.DB.Exec("TRUNCATE user_authorities, users").Error
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

func runMigrations(migrationsDir, dbURL string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
