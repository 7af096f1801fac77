package cmd

import (
	"testing"

	"github.com/jixlabs/jix-cli/config"
)

func resetGlobals(t *testing.T) {
	t.Helper()
	origServer := serverURL
	origUser := username
	origToken := apiToken
	origAccess := accessToken
	t.Cleanup(func() {
		serverURL = origServer
		username = origUser
		apiToken = origToken
		accessToken = origAccess
	})

	serverURL = ""
	username = ""
	apiToken = ""
	accessToken = ""

	t.Setenv("JIRA_SERVER", "")
	t.Setenv("JIRA_USERNAME", "")
	t.Setenv("JIRA_API_TOKEN", "")
	t.Setenv("JIRA_ACCESS_TOKEN", "")
	t.Setenv("JIX_CONFIG_DIR", t.TempDir())
}

func TestResolveCredentials_ErrorsWithoutAnySource(t *testing.T) {
	resetGlobals(t)

	if _, err := resolveCredentials(); err == nil {
		t.Fatal("expected error when no credentials are available")
	}
}

func TestResolveCredentials_FlagsWinOverEnvironment(t *testing.T) {
	resetGlobals(t)

	username = "flag-user"
	apiToken = "flag-token"
	t.Setenv("JIRA_USERNAME", "env-user")
	t.Setenv("JIRA_API_TOKEN", "env-token")

	creds, err := resolveCredentials()
	if err != nil {
		t.Fatalf("resolveCredentials: %v", err)
	}
	if creds.Username != "flag-user" || creds.APIToken != "flag-token" {
		t.Fatalf("flags did not win: %+v", creds)
	}
}

func TestResolveCredentials_EnvironmentWinsOverConfig(t *testing.T) {
	resetGlobals(t)

	if err := config.Save(config.Config{
		Server:   "https://saved.example.net",
		Username: "saved-user",
		APIToken: "saved-token",
	}); err != nil {
		t.Fatalf("saving config: %v", err)
	}
	t.Setenv("JIRA_USERNAME", "env-user")
	t.Setenv("JIRA_API_TOKEN", "env-token")

	creds, err := resolveCredentials()
	if err != nil {
		t.Fatalf("resolveCredentials: %v", err)
	}
	if creds.Username != "env-user" || creds.APIToken != "env-token" {
		t.Fatalf("environment did not win: %+v", creds)
	}
}

func TestResolveCredentials_FallsBackToConfig(t *testing.T) {
	resetGlobals(t)

	if err := config.Save(config.Config{
		Username: "saved-user",
		APIToken: "saved-token",
	}); err != nil {
		t.Fatalf("saving config: %v", err)
	}

	creds, err := resolveCredentials()
	if err != nil {
		t.Fatalf("resolveCredentials: %v", err)
	}
	if creds.Username != "saved-user" || creds.APIToken != "saved-token" {
		t.Fatalf("config fallback failed: %+v", creds)
	}
}

func TestResolveCredentials_AccessTokenAloneSuffices(t *testing.T) {
	resetGlobals(t)

	t.Setenv("JIRA_ACCESS_TOKEN", "pat-123")

	creds, err := resolveCredentials()
	if err != nil {
		t.Fatalf("resolveCredentials: %v", err)
	}
	if creds.AccessToken != "pat-123" {
		t.Fatalf("access token not picked up: %+v", creds)
	}
}

func TestResolveServer_Precedence(t *testing.T) {
	resetGlobals(t)

	if err := config.Save(config.Config{Server: "https://saved.example.net"}); err != nil {
		t.Fatalf("saving config: %v", err)
	}

	got, err := resolveServer()
	if err != nil {
		t.Fatalf("resolveServer: %v", err)
	}
	if got != "https://saved.example.net" {
		t.Fatalf("config server = %q", got)
	}

	t.Setenv("JIRA_SERVER", "https://env.example.net")
	if got, _ = resolveServer(); got != "https://env.example.net" {
		t.Fatalf("env did not win over config: %q", got)
	}

	serverURL = "https://flag.example.net"
	if got, _ = resolveServer(); got != "https://flag.example.net" {
		t.Fatalf("flag did not win over env: %q", got)
	}
}

func TestResolveServer_ErrorsWithoutAnySource(t *testing.T) {
	resetGlobals(t)

	if _, err := resolveServer(); err == nil {
		t.Fatal("expected error when no server is configured")
	}
}
