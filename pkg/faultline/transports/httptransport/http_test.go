package httptransport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_PostsPayload(t *testing.T) {
	var gotBody []byte
	var gotHeader http.Header
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr, err := New(WithHeader("X-Project", "demo"))
	require.NoError(t, err)
	defer tr.Close()

	status, err := tr.Send(context.Background(), srv.URL+"/api/v1/project/tok/trace", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, `{"a":1}`, string(gotBody))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "faultline-go", gotHeader.Get("User-Agent"))
	assert.Equal(t, "demo", gotHeader.Get("X-Project"))
}

func TestSend_Accepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	tr, err := New()
	require.NoError(t, err)

	status, err := tr.Send(context.Background(), srv.URL, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
}

func TestSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusForbidden)
	}))
	defer srv.Close()

	tr, err := New()
	require.NoError(t, err)

	status, err := tr.Send(context.Background(), srv.URL, []byte(`{}`))
	assert.Equal(t, http.StatusForbidden, status)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr), "err = %v", err)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, "bad token", httpErr.Message)
	assert.Contains(t, err.Error(), "403")
}

func TestSend_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tr, err := New()
	require.NoError(t, err)

	status, err := tr.Send(context.Background(), url, []byte(`{}`))
	assert.Error(t, err)
	assert.Zero(t, status)
}

func TestSend_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	tr, err := New(WithTimeout(50 * time.Millisecond))
	require.NoError(t, err)

	_, err = tr.Send(context.Background(), srv.URL, []byte(`{}`))
	assert.Error(t, err)
}

func TestNew_Environment(t *testing.T) {
	t.Setenv(EnvServerTimeout, "2.5")
	t.Setenv(EnvVerifyServerCert, "false")

	tr, err := New()
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, tr.client.Timeout)

	base := tr.client.Transport.(*http.Transport)
	assert.True(t, base.TLSClientConfig.InsecureSkipVerify)
}

func TestNew_EnvironmentDuration(t *testing.T) {
	t.Setenv(EnvServerTimeout, "3s")

	tr, err := New()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, tr.client.Timeout)
	assert.False(t, tr.client.Transport.(*http.Transport).TLSClientConfig.InsecureSkipVerify)
}

func TestNew_InvalidEnvironment(t *testing.T) {
	t.Setenv(EnvVerifyServerCert, "maybe")
	_, err := New()
	assert.Error(t, err)

	t.Setenv(EnvVerifyServerCert, "")
	t.Setenv(EnvServerTimeout, "soon")
	_, err = New()
	assert.Error(t, err)
}
