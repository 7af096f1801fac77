package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jixlabs/jix-cli/client"
	"github.com/jixlabs/jix-cli/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with a Jira instance and save credentials",
	Long: `Sign in to a Jira instance with a username and API token.

What happens:
  1. You are prompted for the server URL, username, and API token.
     The token is read without echo.
  2. The credentials are validated against the instance (GET /myself).
  3. On success they are saved locally for future commands.

To generate an API token for Jira Cloud, go to
https://id.atlassian.com/manage-profile/security/api-tokens.

For non-interactive environments, set JIRA_SERVER, JIRA_USERNAME, and
JIRA_API_TOKEN (a .env file in the working directory is also read), or
use the --server / --user / --token flags.

Example:
  jix auth login`,
	RunE: runLogin,
}

func init() {
	loginCmd.SilenceUsage = true
	authCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	server := serverURL
	if server == "" {
		server = os.Getenv("JIRA_SERVER")
	}
	if server == "" {
		var err error
		server, err = promptLine(reader, "Enter your Jira URL: ")
		if err != nil {
			return err
		}
	}
	server = strings.TrimSpace(server)
	if server == "" {
		return fmt.Errorf("Jira URL must not be empty")
	}

	user := username
	if user == "" {
		var err error
		user, err = promptLine(reader, "Enter your Jira username: ")
		if err != nil {
			return err
		}
	}
	user = strings.TrimSpace(user)
	if user == "" {
		return fmt.Errorf("username must not be empty")
	}

	token := apiToken
	if token == "" {
		var err error
		token, err = promptSecret(reader, "Enter your Jira API token: ")
		if err != nil {
			return err
		}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("API token must not be empty")
	}

	creds := client.Credentials{Username: user, APIToken: token}
	c, err := client.New(server, creds)
	if err != nil {
		return err
	}
	me, err := c.Myself()
	if err != nil {
		return fmt.Errorf("validating credentials: %w", err)
	}

	cfg := config.Config{Server: c.BaseURL, Username: user, APIToken: token}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	who := me.DisplayName
	if who == "" {
		who = user
	}
	fmt.Fprintf(os.Stderr, "✓ Logged in as %s\n", who)
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptSecret reads a line without echo when stdin is a terminal, falling
// back to a plain read when input is piped.
func promptSecret(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return string(b), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
