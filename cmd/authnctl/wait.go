package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the authentication server to be ready",
	Long: `Wait for the authentication server to be ready.

Polls GET / until it answers, or GET /<authenticator>/status when
--authenticator is given, so a deployment can block until a key source or the
user store is reachable.

Example:
  authnctl wait
  authnctl wait --port 3000 --retries 60 --authenticator authn-jwt`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		retries, _ := cmd.Flags().GetInt("retries")
		authn, _ := cmd.Flags().GetString("authenticator")

		if err := waitForServer(statusURL(host, port, authn), retries, time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "Server did not become ready: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Authentication server is ready")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().String("host", "localhost", "Server host to check")
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of retries")
	waitCmd.Flags().StringP("authenticator", "a", "", "Wait for this authenticator's status check to pass")
}

func statusURL(host string, port int, authenticator string) string {
	if authenticator == "" {
		return fmt.Sprintf("http://%s:%d/", host, port)
	}
	return fmt.Sprintf("http://%s:%d/%s/status", host, port, authenticator)
}

func waitForServer(url string, retries int, interval time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}

	fmt.Printf("Waiting for %s...\n", url)

	for i := 0; i < retries; i++ {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode < 300 {
				fmt.Println()
				return nil
			}
		}

		fmt.Print(".")
		time.Sleep(interval)
	}

	fmt.Println()
	return fmt.Errorf("not ready after %d attempts", retries)
}
