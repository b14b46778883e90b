package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestEndpoint(t *testing.T) {
	ep := Endpoint("", "contoso")
	assert.Equal(t, "https://login.microsoftonline.com/contoso/oauth2/v2.0/token", ep.TokenURL)
	assert.Equal(t, "https://login.microsoftonline.com/contoso/oauth2/v2.0/devicecode", ep.DeviceAuthURL)
	assert.Equal(t, oauth2.AuthStyleInParams, ep.AuthStyle)

	ep = Endpoint("https://login.microsoftonline.us/", "contoso")
	assert.Equal(t, "https://login.microsoftonline.us/contoso/oauth2/v2.0/token", ep.TokenURL)
	assert.Equal(t, "https://login.microsoftonline.us/contoso/oauth2/v2.0/devicecode", ep.DeviceAuthURL)

	ep = Endpoint("https://login.example", "")
	assert.Equal(t, "https://login.example/common/oauth2/v2.0/authorize", ep.AuthURL)
}

// fakeAuthority serves the v2.0 devicecode and token endpoints for one tenant.
func fakeAuthority(t *testing.T, tokenResponse func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/contoso/oauth2/v2.0/devicecode", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, testIdentity.ClientID, r.PostForm.Get("client_id"))
		assert.Equal(t, strings.Join(Scopes, " "), r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"device_code":      "dc-123",
			"user_code":        "ABCD-EFGH",
			"verification_uri": "https://microsoft.com/devicelogin",
			"expires_in":       900,
			"interval":         1,
		})
	})
	mux.HandleFunc("/contoso/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:device_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "dc-123", r.PostForm.Get("device_code"))
		assert.Equal(t, testIdentity.ClientID, r.PostForm.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		tokenResponse(w)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestOAuth2DeviceFlow_RoundTrip(t *testing.T) {
	srv := fakeAuthority(t, func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`{"access_token":"graph-token","token_type":"Bearer","expires_in":3600}`))
	})

	identity := testIdentity
	identity.TenantID = "contoso"
	flow := NewDeviceFlow(identity, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	da, err := flow.DeviceAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ABCD-EFGH", da.UserCode)
	assert.Equal(t, "https://microsoft.com/devicelogin", da.VerificationURI)

	tok, err := flow.Poll(ctx, da)
	require.NoError(t, err)
	assert.Equal(t, "graph-token", tok.AccessToken)
}

func TestOAuth2DeviceFlow_Declined(t *testing.T) {
	srv := fakeAuthority(t, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"authorization_declined","error_description":"AADSTS70000: user declined"}`))
	})

	identity := testIdentity
	identity.TenantID = "contoso"
	s := NewSession(identity,
		WithAuthorityHost(srv.URL),
		WithPrompt(func(context.Context, Challenge) error { return nil }),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.AccessToken(ctx)
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "declined", authErr.Result())
}
