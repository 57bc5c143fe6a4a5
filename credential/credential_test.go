package credential_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aeroproject/aerobot/config"
	"github.com/aeroproject/aerobot/credential"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfigDefaultsToEnv(t *testing.T) {
	s, err := credential.FromConfig(viper.New())

	require.NoError(t, err)
	assert.Equal(t, credential.Env{Name: "SLACK_TOKEN"}, s)
}

func TestFromConfigSingleSource(t *testing.T) {
	testCases := []struct {
		key      string
		value    string
		expected credential.Source
	}{
		{config.TokenKey, "xoxb-123", credential.Literal{Token: "xoxb-123"}},
		{config.TokenEnvKey, "BOT_TOKEN", credential.Env{Name: "BOT_TOKEN"}},
		{config.TokenFileKey, "~/.aerobot/token", credential.File{Path: "~/.aerobot/token"}},
		{config.TokenURLKey, "http://tokens.local/token", credential.RemoteAPI{URL: "http://tokens.local/token"}},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			v := viper.New()
			v.Set(tc.key, tc.value)

			s, err := credential.FromConfig(v)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, s)
		})
	}
}

func TestFromConfigRejectsManySources(t *testing.T) {
	v := viper.New()
	v.Set(config.TokenKey, "xoxb-123")
	v.Set(config.TokenFileKey, "/etc/token")

	_, err := credential.FromConfig(v)

	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "Only one token source can be configured but got [literal, file [/etc/token]]")
	}
}

func TestResolveLiteral(t *testing.T) {
	token, err := credential.Resolve(context.Background(), credential.Literal{Token: " xoxb-123 "})

	require.NoError(t, err)
	assert.Equal(t, "xoxb-123", token)
}

func TestResolveMissingOrPlaceholder(t *testing.T) {
	for _, s := range []credential.Source{credential.Literal{Token: ""}, credential.Literal{Token: "YOUR_TOKEN_HERE"}, credential.Env{Name: "AEROBOT_TEST_UNSET_TOKEN"}} {
		t.Run(s.String(), func(t *testing.T) {
			_, err := credential.Resolve(context.Background(), s)

			var missingErr *credential.MissingCredentialError
			assert.True(t, errors.As(err, &missingErr))
		})
	}
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("AEROBOT_TEST_TOKEN", "xoxb-env")

	token, err := credential.Resolve(context.Background(), credential.Env{Name: "AEROBOT_TEST_TOKEN"})

	require.NoError(t, err)
	assert.Equal(t, "xoxb-env", token)
}

func TestResolveFileFirstNonBlankLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("\n   \n  xoxb-file  \nsecond-line\n"), 0600))

	token, err := credential.Resolve(context.Background(), credential.File{Path: path})

	require.NoError(t, err)
	assert.Equal(t, "xoxb-file", token)
}

func TestResolveBlankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("\n \n"), 0600))

	_, err := credential.Resolve(context.Background(), credential.File{Path: path})

	var missingErr *credential.MissingCredentialError
	assert.True(t, errors.As(err, &missingErr))
}

func TestResolveMissingFile(t *testing.T) {
	_, err := credential.Resolve(context.Background(), credential.File{Path: filepath.Join(t.TempDir(), "nope")})

	var sourceErr *credential.TokenSourceError
	if assert.True(t, errors.As(err, &sourceErr)) {
		assert.True(t, os.IsNotExist(errors.Cause(err)))
	}
}

func TestResolveRemoteAPI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		fmt.Fprint(w, `{"token": "xoxb-remote"}`)
	}))
	defer ts.Close()

	token, err := credential.Resolve(context.Background(), credential.RemoteAPI{URL: ts.URL, Headers: map[string]string{"X-Api-Key": "secret"}})

	require.NoError(t, err)
	assert.Equal(t, "xoxb-remote", token)
}

func TestResolveRemoteAPIFailures(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{"non 200", http.StatusUnauthorized, `{"token": "xoxb-remote"}`, "HTTP 401"},
		{"not json", http.StatusOK, `token=xoxb`, "unexpected token response"},
		{"missing token", http.StatusOK, `{"access": "xoxb"}`, "missing a [token] string"},
		{"non string token", http.StatusOK, `{"token": 42}`, "missing a [token] string"},
		{"blank token", http.StatusOK, `{"token": "  "}`, "missing a [token] string"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer ts.Close()

			_, err := credential.Resolve(context.Background(), credential.RemoteAPI{URL: ts.URL})

			var sourceErr *credential.TokenSourceError
			if assert.True(t, errors.As(err, &sourceErr)) {
				assert.Contains(t, err.Error(), tc.errMsg)
			}
		})
	}
}

func TestResolveRemoteAPIUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := credential.Resolve(context.Background(), credential.RemoteAPI{URL: url})

	var sourceErr *credential.TokenSourceError
	assert.True(t, errors.As(err, &sourceErr))
}
