package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/conjur-authn/pkg/db"
	gormstore "github.com/doodlesbykumbi/conjur-authn/pkg/server/store/gorm"
)

// userView is the printable form of a user; the password hash is omitted
type userView struct {
	UserID                string   `json:"user_id"`
	Username              string   `json:"username"`
	Enabled               bool     `json:"enabled"`
	AccountNonExpired     bool     `json:"account_non_expired"`
	AccountNonLocked      bool     `json:"account_non_locked"`
	CredentialsNonExpired bool     `json:"credentials_non_expired"`
	Authorities           []string `json:"authorities"`
}

// userShowCmd represents the user show command
var userShowCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Show a user's status flags and authorities",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		gormDB, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		user, err := gormstore.NewUserStore(gormDB).FindByUsername(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to find user %s: %v\n", args[0], err)
			os.Exit(1)
		}

		view := userView{
			UserID:                user.UserID,
			Username:              user.Username,
			Enabled:               user.IsEnabled(),
			AccountNonExpired:     user.IsAccountNonExpired(),
			AccountNonLocked:      user.IsAccountNonLocked(),
			CredentialsNonExpired: user.IsCredentialsNonExpired(),
			Authorities:           user.AuthorityNames(),
		}
		out, _ := json.MarshalIndent(view, "", "  ")
		fmt.Println(string(out))
	},
}

func init() {
	userCmd.AddCommand(userShowCmd)
}
