package graph

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), WithBaseURL(srv.URL))
}

func TestRequest_URL(t *testing.T) {
	c := NewClient(nil)

	tests := []struct {
		name string
		req  *Request
		want string
	}{
		{
			name: "bare path",
			req:  c.API("/me/events"),
			want: "https://graph.microsoft.com/v1.0/me/events",
		},
		{
			name: "path without leading slash",
			req:  c.API("me/contacts"),
			want: "https://graph.microsoft.com/v1.0/me/contacts",
		},
		{
			name: "query options keep order and literal dollar",
			req: c.API("/me/mailFolders/inbox/messages").
				Top(10).
				Select("id", "subject").
				OrderBy("receivedDateTime desc"),
			want: "https://graph.microsoft.com/v1.0/me/mailFolders/inbox/messages?$top=10&$select=id%2Csubject&$orderby=receivedDateTime%20desc",
		},
		{
			name: "filter is escaped",
			req:  c.API("/me/events").Filter("start/dateTime ge '2025-01-01'"),
			want: "https://graph.microsoft.com/v1.0/me/events?$filter=start%2FdateTime%20ge%20%272025-01-01%27",
		},
		{
			name: "non-positive top ignored",
			req:  c.API("/me/events").Top(0),
			want: "https://graph.microsoft.com/v1.0/me/events",
		},
		{
			name: "repeated option replaces",
			req:  c.API("/me/events").Top(5).Top(7),
			want: "https://graph.microsoft.com/v1.0/me/events?$top=7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.URL())
		})
	}
}

func TestRequest_SearchQuotesTerm(t *testing.T) {
	var gotSearch, gotConsistency string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("$search")
		gotConsistency = r.Header.Get("ConsistencyLevel")
		_, _ = w.Write([]byte(`{"value":[]}`))
	})

	var page Collection[Contact]
	require.NoError(t, c.API("/me/contacts").Search("jane doe").Get(context.Background(), &page))

	assert.Equal(t, `"jane doe"`, gotSearch)
	assert.Equal(t, "eventual", gotConsistency)
	assert.Empty(t, page.Value)
}

func TestRequest_SearchKeepsQuotedTerm(t *testing.T) {
	req := NewClient(nil).API("/me/messages").Search(`"invoice"`)
	assert.Contains(t, req.URL(), "$search=%22invoice%22")
}

func TestRequest_GetDecodesCollection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/me/mailFolders/inbox/messages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{
			"value": [
				{"id": "m1", "subject": "Hi", "isRead": true, "importance": "normal",
				 "from": {"emailAddress": {"name": "Jane", "address": "jane@example.com"}},
				 "body": {"contentType": "html", "content": "<p>x</p>"}}
			],
			"@odata.nextLink": "https://graph.microsoft.com/v1.0/next"
		}`))
	})

	var page Collection[Message]
	err := c.API("/me/mailFolders/inbox/messages").Get(context.Background(), &page)
	require.NoError(t, err)

	require.Len(t, page.Value, 1)
	msg := page.Value[0]
	assert.Equal(t, "m1", msg.ID)
	assert.True(t, msg.IsRead)
	require.NotNil(t, msg.From)
	assert.Equal(t, "jane@example.com", msg.From.EmailAddress.Address)
	assert.Equal(t, "<p>x</p>", msg.Body.Content)
	assert.NotEmpty(t, page.NextLink)
}

func TestRequest_PostSendsJSON(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"c1","displayName":"Jane"}`))
	})

	var created Contact
	err := c.API("/me/contacts").Post(context.Background(), Contact{DisplayName: "Jane"}, &created)
	require.NoError(t, err)

	assert.Equal(t, "Jane", got["displayName"])
	assert.Equal(t, "c1", created.ID)
}

func TestRequest_PostAcceptedWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	err := c.API("/me/sendMail").Post(context.Background(), SendMailRequest{}, nil)
	assert.NoError(t, err)

	// Empty body with a non-nil target is not an error either.
	var out map[string]any
	err = c.API("/me/sendMail").Post(context.Background(), SendMailRequest{}, &out)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestRequest_GraphErrorDecoded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"ErrorInvalidRecipients","message":"At least one recipient is not valid."}}`))
	})

	err := c.API("/me/sendMail").Post(context.Background(), SendMailRequest{}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "ErrorInvalidRecipients", apiErr.Code)
	assert.Equal(t, "At least one recipient is not valid.", err.Error())
	assert.False(t, IsUnauthorized(err))
}

func TestRequest_NonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	err := c.API("/me/events").Get(context.Background(), &Collection[Event]{})
	require.Error(t, err)
	assert.Equal(t, "upstream unavailable", err.Error())
}

func TestAPIError_Message(t *testing.T) {
	assert.Equal(t, "graph request failed with status 500", (&APIError{StatusCode: 500}).Error())
	assert.Equal(t, "graph request failed with status 404: ErrorItemNotFound",
		(&APIError{StatusCode: 404, Code: "ErrorItemNotFound"}).Error())
}

func TestIsUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"InvalidAuthenticationToken","message":"Lifetime validation failed, the token is expired."}}`))
	})

	err := c.API("/me").Get(context.Background(), &User{})
	assert.True(t, IsUnauthorized(err))
}

func TestRequest_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(http.DefaultClient, WithBaseURL(url))
	err := c.API("/me/events").Get(context.Background(), &Collection[Event]{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph GET /me/events")
}

func TestRequest_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	err := c.API("/me").Get(context.Background(), &User{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = NewClient(nil, WithBaseURL("http://localhost:1234/"))
	assert.Equal(t, "http://localhost:1234", c.BaseURL())
}

func TestRequest_ClientRequestID(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(HeaderClientRequestID))
		w.Header().Set(HeaderRequestID, "graph-side-id")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"ErrorItemNotFound","message":"The specified object was not found in the store."}}`))
	})

	err := c.API("/me/events").Get(context.Background(), &Collection[Event]{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Len(t, seen, 1)
	assert.NotEmpty(t, seen[0])
	assert.Equal(t, seen[0], apiErr.ClientRequestID)
	assert.Equal(t, "graph-side-id", apiErr.RequestID)

	_ = c.API("/me/events").Get(context.Background(), &Collection[Event]{})
	require.Len(t, seen, 2)
	assert.NotEqual(t, seen[0], seen[1], "each request gets a fresh id")
}

func TestRequest_ClientRequestIDFromCaller(t *testing.T) {
	var seen string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(HeaderClientRequestID)
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, c.API("/me").Header(HeaderClientRequestID, "fixed-id").Get(context.Background(), &User{}))
	assert.Equal(t, "fixed-id", seen)
}
