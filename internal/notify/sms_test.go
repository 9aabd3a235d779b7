// README: SMS gateway tests against a stub HTTP server.
package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwilioGatewaySend(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	var gotUser, gotPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM123"}`))
	}))
	defer srv.Close()

	g := NewTwilioGateway("AC123", "token", "+13125550100")
	g.baseURL = srv.URL

	err := g.Send(context.Background(), "+13125550199", "New ride booked")
	require.NoError(t, err)

	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "token", gotPass)
	assert.Equal(t, "+13125550199", gotTo)
	assert.Equal(t, "+13125550100", gotFrom)
	assert.Equal(t, "New ride booked", gotBody)
}

func TestTwilioGatewaySendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"authentication required"}`))
	}))
	defer srv.Close()

	g := NewTwilioGateway("AC123", "bad", "+13125550100")
	g.baseURL = srv.URL

	err := g.Send(context.Background(), "+13125550199", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
