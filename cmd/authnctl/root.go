package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "authnctl",
	Short: "Username/password and bearer JWT authentication service",
	Long: `Run and administer the authentication service.

The service verifies HTTP Basic username/password credentials against the
user store and bearer JSON Web Tokens against configured keys, and returns a
normalized principal for either.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
