package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/conjur-authn/pkg/password"
)

// passwordCmd represents the password command
var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Password utilities",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'password' requires a subcommand (hash)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// passwordHashCmd represents the password hash command
var passwordHashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Hash a password read from stdin",
	Long: `Hash a password read from the first line of stdin.

The output carries the {bcrypt} encoding prefix and can be stored directly in
users.password_hash.

Example:
  echo "s3cret" | authnctl password hash`,
	Run: func(cmd *cobra.Command, args []string) {
		plain, err := readPassword(os.Stdin)
		if err != nil || plain == "" {
			fmt.Fprintln(os.Stderr, "A password is required on stdin")
			os.Exit(1)
		}

		cost, _ := cmd.Flags().GetInt("cost")
		hash, err := password.Hash(plain, cost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
	},
}

func init() {
	rootCmd.AddCommand(passwordCmd)
	passwordCmd.AddCommand(passwordHashCmd)
	passwordHashCmd.Flags().Int("cost", 0, "bcrypt cost (default 10)")
}
