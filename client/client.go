package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
)

const defaultRequestTimeout = 60 * time.Second

// Credentials selects the authentication scheme for a Jira instance.
// Username+APIToken uses HTTP basic auth (Jira Cloud API tokens);
// AccessToken uses a bearer token (Jira Data Center PATs).
type Credentials struct {
	Username    string
	APIToken    string
	AccessToken string
}

// HasAuth reports whether any usable credential is present.
func (c Credentials) HasAuth() bool {
	return c.AccessToken != "" || (c.Username != "" && c.APIToken != "")
}

// Client is a thin wrapper around go-jira with retrying transport and
// typed errors.
type Client struct {
	BaseURL string

	jc *jira.Client
}

// New creates a Jira API client for the given server URL. All requests go
// through a retrying transport; authentication is layered on top of it
// according to the credentials provided.
func New(serverURL string, creds Credentials) (*Client, error) {
	serverURL = strings.TrimRight(serverURL, "/")
	if serverURL == "" {
		return nil, fmt.Errorf("Jira server URL must not be empty")
	}

	retry := newRetryTransport(http.DefaultTransport)

	var transport http.RoundTripper
	switch {
	case creds.AccessToken != "":
		transport = &jira.BearerAuthTransport{Token: creds.AccessToken, Transport: retry}
	case creds.Username != "" && creds.APIToken != "":
		transport = &jira.BasicAuthTransport{Username: creds.Username, Password: creds.APIToken, Transport: retry}
	default:
		return nil, fmt.Errorf("no credentials: provide a username and API token, or an access token")
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   defaultRequestTimeout,
	}

	jc, err := jira.NewClient(httpClient, serverURL)
	if err != nil {
		return nil, fmt.Errorf("creating Jira client: %w", err)
	}

	return &Client{BaseURL: serverURL, jc: jc}, nil
}

// Myself returns the authenticated user. Used to validate credentials.
func (c *Client) Myself() (*jira.User, error) {
	user, resp, err := c.jc.User.GetSelf()
	if err != nil {
		return nil, wrapError(resp, err)
	}
	return user, nil
}

// Fields returns the field catalog of the Jira instance, including
// custom fields.
func (c *Client) Fields() ([]jira.Field, error) {
	fields, resp, err := c.jc.Field.GetList()
	if err != nil {
		return nil, wrapError(resp, err)
	}
	return fields, nil
}

// APIError is a typed error for failed Jira API calls, with the HTTP
// status code and any error messages from the response body.
type APIError struct {
	StatusCode int
	Messages   []string
	RetryAfter string
}

func (e *APIError) Error() string {
	if friendly := friendlyErrorMessage(e.StatusCode, e.RetryAfter); friendly != "" {
		return friendly
	}
	if len(e.Messages) > 0 {
		return fmt.Sprintf("Jira API error %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("Jira API error %d", e.StatusCode)
}

// friendlyErrorMessage translates common failure statuses into user-facing messages.
func friendlyErrorMessage(statusCode int, retryAfter string) string {
	switch statusCode {
	case http.StatusUnauthorized:
		return "authentication failed: check your username and API token (or run 'jix auth login')"
	case http.StatusForbidden:
		return "permission denied by Jira: your account cannot run this request"
	case http.StatusTooManyRequests:
		if retryAfter != "" {
			return fmt.Sprintf("rate limited by Jira; retry after %s", retryAfter)
		}
		return "rate limited by Jira; retry in a moment"
	default:
		return ""
	}
}

// IsBadRequest returns true if the error is a 400 APIError, which Jira
// uses for JQL syntax errors.
func IsBadRequest(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

func wrapError(resp *jira.Response, err error) error {
	if err == nil {
		return nil
	}

	apiErr := &APIError{}
	if resp != nil && resp.Response != nil {
		apiErr.StatusCode = resp.StatusCode
		apiErr.RetryAfter = resp.Header.Get("Retry-After")
	}

	var jerr *jira.Error
	if errors.As(err, &jerr) {
		apiErr.Messages = append(apiErr.Messages, jerr.ErrorMessages...)
		for field, msg := range jerr.Errors {
			apiErr.Messages = append(apiErr.Messages, fmt.Sprintf("%s: %s", field, msg))
		}
	}

	if apiErr.StatusCode == 0 && len(apiErr.Messages) == 0 {
		// Transport-level failure with no HTTP response; keep the original error.
		return err
	}
	return apiErr
}
