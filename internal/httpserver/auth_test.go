package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func TestSignUp(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/signup", map[string]string{
		"username": "alice",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	account := decodeJSON[accountResponse](t, rec)
	assert.NotZero(t, account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestSignUp_Duplicate(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"username": "alice", "password": "secret"}
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/signup", payload).Code)

	rec := env.do(http.MethodPost, "/api/signup", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignUp_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{name: "missing password", payload: map[string]string{"username": "alice"}},
		{name: "missing username", payload: map[string]string{"password": "secret"}},
		{name: "empty body", payload: map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/signup", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"username": "alice", "password": "secret"}
	signup := decodeJSON[accountResponse](t, env.do(http.MethodPost, "/api/signup", payload))

	rec := env.do(http.MethodPost, "/api/login", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	account := decodeJSON[accountResponse](t, rec)
	assert.Equal(t, signup.ID, account.ID)
	assert.Equal(t, "alice", account.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodPost, "/api/signup", map[string]string{"username": "alice", "password": "secret"})

	rec := env.do(http.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestLogin_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/login", map[string]string{"username": "nobody", "password": "secret"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}
