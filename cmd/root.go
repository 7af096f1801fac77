package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jixlabs/jix-cli/client"
	"github.com/jixlabs/jix-cli/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	serverURL   string
	username    string
	apiToken    string
	accessToken string
)

var rootCmd = &cobra.Command{
	Use:           "jix",
	Short:         "Jix CLI — JQL queries and spreadsheet exports for Jira",
	Version:       Version,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Jira server URL (env: JIRA_SERVER)")
	rootCmd.PersistentFlags().StringVar(&username, "user", "", "Jira username or email (env: JIRA_USERNAME)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "Jira API token for basic auth (env: JIRA_API_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&accessToken, "access-token", "", "Bearer access token / PAT (env: JIRA_ACCESS_TOKEN)")
}

// resolveServer returns the Jira server URL: flag > environment > saved config.
func resolveServer() (string, error) {
	if serverURL != "" {
		return serverURL, nil
	}
	if v := os.Getenv("JIRA_SERVER"); v != "" {
		return v, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	if cfg.Server == "" {
		return "", fmt.Errorf("no Jira server configured: run 'jix auth login' or set --server / JIRA_SERVER")
	}
	return cfg.Server, nil
}

// resolveCredentials returns credentials: flags > environment > saved config.
// An access token wins over a username/token pair at the same precedence level.
func resolveCredentials() (client.Credentials, error) {
	creds := client.Credentials{
		Username:    username,
		APIToken:    apiToken,
		AccessToken: accessToken,
	}
	if creds.HasAuth() {
		return creds, nil
	}

	if creds.Username == "" {
		creds.Username = os.Getenv("JIRA_USERNAME")
	}
	if creds.APIToken == "" {
		creds.APIToken = os.Getenv("JIRA_API_TOKEN")
	}
	if creds.AccessToken == "" {
		creds.AccessToken = os.Getenv("JIRA_ACCESS_TOKEN")
	}
	if creds.HasAuth() {
		return creds, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return client.Credentials{}, fmt.Errorf("loading config: %w", err)
	}
	if creds.Username == "" {
		creds.Username = cfg.Username
	}
	if creds.APIToken == "" {
		creds.APIToken = cfg.APIToken
	}
	if creds.AccessToken == "" {
		creds.AccessToken = cfg.AccessToken
	}
	if !creds.HasAuth() {
		return client.Credentials{}, fmt.Errorf("not authenticated: run 'jix auth login' or set JIRA_USERNAME and JIRA_API_TOKEN")
	}
	return creds, nil
}

// newAPIClient builds an authenticated Jira client from the resolved
// server and credentials.
func newAPIClient() (*client.Client, error) {
	server, err := resolveServer()
	if err != nil {
		return nil, err
	}
	creds, err := resolveCredentials()
	if err != nil {
		return nil, err
	}
	return client.New(server, creds)
}

func Execute() error {
	// Credentials may live in a .env next to where the tool is run.
	_ = godotenv.Load()
	return rootCmd.Execute()
}
