package auth

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/teemow/outlook-mcp/internal/config"
)

// DefaultAuthorityHost is the public Microsoft identity platform.
const DefaultAuthorityHost = "https://login.microsoftonline.com"

// DeviceFlow is the device authorization exchange with the identity platform.
type DeviceFlow interface {
	// DeviceAuth requests a device code and user code.
	DeviceAuth(ctx context.Context) (*oauth2.DeviceAuthResponse, error)

	// Poll blocks until the user redeems the code, the code expires or ctx is done.
	Poll(ctx context.Context, da *oauth2.DeviceAuthResponse) (*oauth2.Token, error)
}

type oauth2DeviceFlow struct {
	config *oauth2.Config
}

// NewDeviceFlow returns the production DeviceFlow for a public client
// registered in the given tenant. An empty authorityHost uses the public cloud.
func NewDeviceFlow(identity config.Identity, authorityHost string) DeviceFlow {
	return &oauth2DeviceFlow{
		config: &oauth2.Config{
			ClientID: identity.ClientID,
			Endpoint: Endpoint(authorityHost, identity.TenantID),
			Scopes:   Scopes,
		},
	}
}

// Endpoint returns the v2.0 OAuth endpoints of tenant on authorityHost.
func Endpoint(authorityHost, tenant string) oauth2.Endpoint {
	host := strings.TrimSuffix(authorityHost, "/")

	var ep oauth2.Endpoint
	if host == "" || host == DefaultAuthorityHost {
		ep = microsoft.AzureADEndpoint(tenant)
	} else {
		if tenant == "" {
			tenant = "common"
		}
		base := host + "/" + tenant + "/oauth2/v2.0"
		ep = oauth2.Endpoint{
			AuthURL:       base + "/authorize",
			TokenURL:      base + "/token",
			DeviceAuthURL: base + "/devicecode",
		}
	}
	// Public clients have no secret; client_id must travel in the form body.
	ep.AuthStyle = oauth2.AuthStyleInParams
	return ep
}

func (f *oauth2DeviceFlow) DeviceAuth(ctx context.Context) (*oauth2.DeviceAuthResponse, error) {
	return f.config.DeviceAuth(ctx)
}

func (f *oauth2DeviceFlow) Poll(ctx context.Context, da *oauth2.DeviceAuthResponse) (*oauth2.Token, error) {
	return f.config.DeviceAccessToken(ctx, da)
}
