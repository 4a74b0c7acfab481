package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator/authn_jwt"
	"github.com/doodlesbykumbi/conjur-authn/pkg/config"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Bearer token utilities",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'token' requires a subcommand (inspect)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// tokenInspectCmd represents the token inspect command
var tokenInspectCmd = &cobra.Command{
	Use:   "inspect [token]",
	Short: "Verify a bearer token and print its principal",
	Long: `Verify a bearer token with the configured keys and print the principal
the authn-jwt authenticator would produce. The token is read from stdin when
no argument is given.

Example:
  authnctl token inspect eyJhbGciOi...
  authnctl token inspect --no-expiry < token.jwt`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw := ""
		if len(args) == 1 {
			raw = args[0]
		} else {
			line, err := readPassword(os.Stdin)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to read token: %v\n", err)
				os.Exit(1)
			}
			raw = line
		}
		noExpiry, _ := cmd.Flags().GetBool("no-expiry")

		if err := inspectToken(strings.TrimSpace(raw), !noExpiry); err != nil {
			fmt.Fprintf(os.Stderr, "Token rejected: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenInspectCmd)
	tokenInspectCmd.Flags().Bool("no-expiry", false, "Skip exp, nbf and iat validation")
}

func inspectToken(raw string, checkExpiry bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !cfg.HasTokenKeys() {
		return fmt.Errorf("no token verification key is configured")
	}

	ctx := context.Background()
	resolver, err := newTokenResolver(ctx, cfg, false)
	if err != nil {
		return err
	}

	result, err := authn_jwt.New(resolver).AuthenticateToken(ctx, raw, checkExpiry, nil)
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(result.Principal, "", "  ")
	fmt.Println(string(out))
	return nil
}
