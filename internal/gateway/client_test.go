package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHTTPClientEncodesActionAsForm(t *testing.T) {
	var gotContentType, gotAction, gotUsername string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotAction = r.PostFormValue("action")
		gotUsername = r.PostFormValue("username")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"user":{"id":"s1","name":"Siti","role":"student"}}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, zap.NewNop(), nil)
	result := client.Call(context.Background(), ActionLogin, Params{"username": "siti", "password": "pw123"})

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "login", gotAction)
	assert.Equal(t, "siti", gotUsername)
	require.True(t, result.Success)
	require.NotNil(t, result.User)
	assert.Equal(t, "s1", result.User.ID)
}

func TestHTTPClientPassesFailureMessageThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Username atau password salah"}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, zap.NewNop(), nil)
	result := client.Call(context.Background(), ActionLogin, Params{"username": "x", "password": "y"})

	assert.False(t, result.Success)
	assert.Equal(t, "Username atau password salah", result.Message)
}

func TestHTTPClientSynthesisesFailureOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewHTTPClient(srv.URL, zap.NewNop(), nil)
	result := client.Call(context.Background(), ActionGetUsers, Params{"role": "student"})

	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, GenericFailureMessage, result.Message)
}

func TestHTTPClientSynthesisesFailureOnNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream error</html>"))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, zap.NewNop(), nil)
	result := client.Call(context.Background(), ActionGetPermissions, Params{"role": "teacher", "userId": "t1"})

	assert.False(t, result.Success)
	assert.Equal(t, GenericFailureMessage, result.Message)
}

func TestHTTPClientFillsGenericMessageOnBareFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, zap.NewNop(), nil)
	result := client.Call(context.Background(), ActionGetPoints, Params{"studentId": "s1"})

	assert.False(t, result.Success)
	assert.Equal(t, GenericFailureMessage, result.Message)
}

func TestHTTPClientReportsObservations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	var observedAction string
	var observedSuccess bool
	client := NewHTTPClient(srv.URL, zap.NewNop(), func(action string, success bool, _ time.Duration) {
		observedAction = action
		observedSuccess = success
	})
	client.Call(context.Background(), ActionDeleteStudent, Params{"id": "s9"})

	assert.Equal(t, ActionDeleteStudent, observedAction)
	assert.True(t, observedSuccess)
}
