package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

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

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the authentication server",
	Long: `Run the authentication server.

To run the server requires the environment variable DATABASE_URL. Bearer
token authentication additionally requires a verification key: set
AUTHN_JWT_HMAC_SECRET or one of jwt_public_keys, jwt_public_keys_file and
jwt_jwks_uri in authn.yml.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		if err := config.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		gormDB, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		users := gormstore.NewUserStore(gormDB)
		registry, err := buildRegistry(ctx, cfg, users)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to configure authenticators: %v\n", err)
			os.Exit(1)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(registry, cfg, gormstore.NewHealthStore(gormDB), host, port)

		endpoints.RegisterAll(s)

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = s.Shutdown(shutdownCtx)
		}()

		log.Printf("Running server at http://%s:%s with authenticators %v...\n", host, port, registry.Enabled())
		if err := s.Start(); err != nil && ctx.Err() == nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

// buildRegistry registers both authenticators and enables the configured ones.
// The password authenticator is always installed; the token authenticator is
// installed only when a verification key is configured.
func buildRegistry(ctx context.Context, cfg *config.AuthnConfig, users *gormstore.UserStore) (*authenticator.Registry, error) {
	registry := authenticator.NewRegistry()
	registry.Register(authn.New(users, password.NewDelegatingVerifier()))

	if cfg.HasTokenKeys() {
		resolver, err := newTokenResolver(ctx, cfg, true)
		if err != nil {
			return nil, err
		}

		opts := []authn_jwt.Option{authn_jwt.WithCheckExpiry(cfg.CheckExpiry)}
		if cfg.TokenStatusFromStore {
			opts = append(opts, authn_jwt.WithAccountStatusSource(users))
		}
		registry.Register(authn_jwt.New(resolver, opts...))
	}

	for _, name := range cfg.Authenticators {
		if err := registry.Enable(name); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// newTokenResolver builds the token resolver from configuration. With watch
// set, a keys file is reloaded on change until ctx is cancelled.
func newTokenResolver(ctx context.Context, cfg *config.AuthnConfig, watch bool) (*token.Resolver, error) {
	tc := token.Config{
		Issuer:       cfg.JWTIssuer,
		Audience:     cfg.JWTAudience,
		Algorithms:   cfg.JWTAlgorithms,
		Leeway:       cfg.Leeway(),
		ClaimMapping: cfg.ClaimMapping,
	}
	if cfg.JWTHMACSecret != "" {
		tc.HMACSecret = []byte(cfg.JWTHMACSecret)
	}

	if cfg.JWTPublicKeys != "" || cfg.JWTPublicKeysFile != "" || cfg.JWTJWKSURI != "" {
		keys, err := loadKeySet(cfg)
		if err != nil {
			return nil, err
		}
		tc.Keys = keys

		if watch && cfg.JWTPublicKeysFile != "" {
			go func() {
				if err := keys.Watch(ctx); err != nil {
					log.Printf("Stopped watching %s: %v", cfg.JWTPublicKeysFile, err)
				}
			}()
		}
	}

	return token.NewResolver(tc)
}

func loadKeySet(cfg *config.AuthnConfig) (*token.KeySet, error) {
	keys := token.NewKeySet()
	if cfg.JWTPublicKeys != "" {
		if err := keys.LoadInline(cfg.JWTPublicKeys); err != nil {
			return nil, fmt.Errorf("jwt_public_keys: %w", err)
		}
	}
	if cfg.JWTPublicKeysFile != "" {
		if err := keys.LoadFile(cfg.JWTPublicKeysFile); err != nil {
			return nil, fmt.Errorf("jwt_public_keys_file: %w", err)
		}
	}
	if cfg.JWTJWKSURI != "" {
		keys.SetRemote(cfg.JWTJWKSURI, nil)
	}
	return keys, nil
}
