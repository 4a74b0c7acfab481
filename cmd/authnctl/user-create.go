package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/conjur-authn/pkg/db"
	"github.com/doodlesbykumbi/conjur-authn/pkg/model"
	"github.com/doodlesbykumbi/conjur-authn/pkg/password"
	gormstore "github.com/doodlesbykumbi/conjur-authn/pkg/server/store/gorm"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user",
	Long: `Create a user with a bcrypt hashed password and a set of authorities.

The password is read from --password, or from the first line of stdin when
the flag is omitted. Authorities are stored verbatim: roles conventionally
carry the ROLE_ prefix.

Example:
  authnctl user create alice --authority ROLE_admin --authority user:read
  echo "s3cret" | authnctl user create bob --locked`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetString("password")
		if plain == "" {
			var err error
			plain, err = readPassword(os.Stdin)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to read password: %v\n", err)
				os.Exit(1)
			}
		}

		user, err := newUser(cmd, args[0], plain)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user %s: %v\n", args[0], err)
			os.Exit(1)
		}

		gormDB, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		if err := gormstore.NewUserStore(gormDB).Create(context.Background(), user); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user %s: %v\n", args[0], err)
			os.Exit(1)
		}

		fmt.Printf("Created user %s (%s)\n", user.Username, user.UserID)
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("password", "", "Password (read from stdin when omitted)")
	userCreateCmd.Flags().StringSliceP("authority", "a", nil, "Granted authority, repeatable")
	userCreateCmd.Flags().Int("cost", 0, "bcrypt cost (default 10)")
	userCreateCmd.Flags().Bool("disabled", false, "Create the account disabled")
	userCreateCmd.Flags().Bool("locked", false, "Create the account locked")
	userCreateCmd.Flags().Bool("expired", false, "Create the account expired")
	userCreateCmd.Flags().Bool("credentials-expired", false, "Create the account with expired credentials")
}

func newUser(cmd *cobra.Command, username, plain string) (*model.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if plain == "" {
		return nil, fmt.Errorf("password is required")
	}

	cost, _ := cmd.Flags().GetInt("cost")
	hash, err := password.Hash(plain, cost)
	if err != nil {
		return nil, err
	}

	authorities, _ := cmd.Flags().GetStringSlice("authority")
	disabled, _ := cmd.Flags().GetBool("disabled")
	locked, _ := cmd.Flags().GetBool("locked")
	expired, _ := cmd.Flags().GetBool("expired")
	credsExpired, _ := cmd.Flags().GetBool("credentials-expired")

	user := &model.User{
		UserID:             uuid.NewString(),
		Username:           username,
		PasswordHash:       hash,
		Enabled:            !disabled,
		Locked:             locked,
		Expired:            expired,
		CredentialsExpired: credsExpired,
	}
	seen := map[string]bool{}
	for _, a := range authorities {
		a = strings.TrimSpace(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		user.Authorities = append(user.Authorities, model.UserAuthority{UserID: user.UserID, Authority: a})
	}
	return user, nil
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
