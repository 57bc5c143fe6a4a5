// Package credential acquires the chat token the bot logs in with. A token comes from exactly one
// Source: a literal value, an environment variable, a file or a remote token-issuing API
package credential

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aeroproject/aerobot/config"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// DefaultTokenEnv is the environment variable read when no token source is configured
	DefaultTokenEnv = "SLACK_TOKEN"

	// placeholderToken is the value shipped in sample configurations. It never is a valid token
	placeholderToken = "YOUR_TOKEN_HERE"
)

// Source is implemented by the token sources: Literal, Env, File and RemoteAPI
type Source interface {
	// String describes the source without revealing the token
	String() string

	token(ctx context.Context) (token string, err error)
}

// Literal is a token given as is
type Literal struct {
	Token string
}

// Env is a token read from an environment variable
type Env struct {
	Name string
}

// File is a token read from the first non-blank line of a file. A leading ~ is expanded
// to the home directory
type File struct {
	Path string
}

// RemoteAPI is a token fetched with a GET on a token-issuing API answering {"token": "<token>"}
type RemoteAPI struct {
	URL     string
	Headers map[string]string
	Client  *http.Client
}

// MissingCredentialError is returned when a source yields no usable token
type MissingCredentialError struct {
	Source string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("Missing or placeholder token from %s", e.Source)
}

// TokenSourceError is returned when a source can't be read: unreadable file, unreachable
// token API or unexpected token API response
type TokenSourceError struct {
	Source string
	Err    error
}

func (e *TokenSourceError) Error() string {
	return fmt.Sprintf("Error getting token from %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error
func (e *TokenSourceError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error (github.com/pkg/errors compatible)
func (e *TokenSourceError) Cause() error {
	return e.Err
}

// FromConfig returns the token source configured on v. At most one of config.TokenKey,
// config.TokenEnvKey, config.TokenFileKey and config.TokenURLKey can be set. When none is set,
// the token is read from the DefaultTokenEnv environment variable
func FromConfig(v *viper.Viper) (s Source, err error) {
	sources := make([]Source, 0)

	if t := v.GetString(config.TokenKey); t != "" {
		sources = append(sources, Literal{Token: t})
	}

	if n := v.GetString(config.TokenEnvKey); n != "" {
		sources = append(sources, Env{Name: n})
	}

	if p := v.GetString(config.TokenFileKey); p != "" {
		sources = append(sources, File{Path: p})
	}

	if u := v.GetString(config.TokenURLKey); u != "" {
		remote := RemoteAPI{URL: u}
		if headers := v.GetStringMapString(config.TokenURLHeadersKey); len(headers) > 0 {
			remote.Headers = headers
		}

		sources = append(sources, remote)
	}

	switch len(sources) {
	case 0:
		return Env{Name: DefaultTokenEnv}, nil
	case 1:
		return sources[0], nil
	}

	descriptions := make([]string, 0, len(sources))
	for _, s := range sources {
		descriptions = append(descriptions, s.String())
	}

	return nil, fmt.Errorf("Only one token source can be configured but got [%s]", strings.Join(descriptions, ", "))
}

// Resolve gets the token from the source. A missing, blank or placeholder token results in a
// *MissingCredentialError while a source that can't be read results in a *TokenSourceError
func Resolve(ctx context.Context, s Source) (token string, err error) {
	token, err = s.token(ctx)
	if err != nil {
		return "", err
	}

	token = strings.TrimSpace(token)
	if token == "" || token == placeholderToken {
		return "", &MissingCredentialError{Source: s.String()}
	}

	return token, nil
}

func (l Literal) String() string {
	return "literal"
}

func (l Literal) token(ctx context.Context) (token string, err error) {
	return l.Token, nil
}

func (e Env) String() string {
	return fmt.Sprintf("env [%s]", e.Name)
}

func (e Env) token(ctx context.Context) (token string, err error) {
	return os.Getenv(e.Name), nil
}

func (f File) String() string {
	return fmt.Sprintf("file [%s]", f.Path)
}

func (f File) token(ctx context.Context) (token string, err error) {
	path, err := homedir.Expand(f.Path)
	if err != nil {
		return "", &TokenSourceError{Source: f.String(), Err: err}
	}

	file, err := os.Open(path)
	if err != nil {
		return "", &TokenSourceError{Source: f.String(), Err: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}

	if err = scanner.Err(); err != nil {
		return "", &TokenSourceError{Source: f.String(), Err: err}
	}

	return "", nil
}

func (r RemoteAPI) String() string {
	return fmt.Sprintf("token api [%s]", r.URL)
}

func (r RemoteAPI) token(ctx context.Context) (token string, err error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return "", &TokenSourceError{Source: r.String(), Err: err}
	}

	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &TokenSourceError{Source: r.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TokenSourceError{Source: r.String(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &TokenSourceError{Source: r.String(), Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	var payload map[string]interface{}
	if err = json.Unmarshal(body, &payload); err != nil {
		return "", &TokenSourceError{Source: r.String(), Err: errors.Wrap(err, "unexpected token response")}
	}

	t, ok := payload["token"].(string)
	if !ok || strings.TrimSpace(t) == "" {
		return "", &TokenSourceError{Source: r.String(), Err: errors.New("token response is missing a [token] string")}
	}

	return t, nil
}
