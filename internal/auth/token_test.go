package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-123"

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager(testSecret, "blogsphere-api", "blogsphere-client", time.Hour)

	token, exp, err := m.Issue(42, "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	userID, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestManager_ParseRejects(t *testing.T) {
	m := NewManager(testSecret, "blogsphere-api", "blogsphere-client", time.Hour)
	valid := func(mutate func(jwt.MapClaims)) string {
		claims := jwt.MapClaims{
			"sub": "7",
			"iss": "blogsphere-api",
			"aud": "blogsphere-client",
			"exp": time.Now().Add(time.Hour).Unix(),
			"iat": time.Now().Unix(),
		}
		mutate(claims)
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return signed
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", valid(func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() })},
		{"missing exp", valid(func(c jwt.MapClaims) { delete(c, "exp") })},
		{"wrong issuer", valid(func(c jwt.MapClaims) { c["iss"] = "someone-else" })},
		{"wrong audience", valid(func(c jwt.MapClaims) { c["aud"] = "other-client" })},
		{"non numeric subject", valid(func(c jwt.MapClaims) { c["sub"] = "abc" })},
		{"zero subject", valid(func(c jwt.MapClaims) { c["sub"] = "0" })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("another-secret-that-is-long-enough", "blogsphere-api", "blogsphere-client", time.Hour)
		token, _, err := other.Issue(7, "bob")
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": "7", "iss": "blogsphere-api", "aud": "blogsphere-client", "exp": time.Now().Add(time.Hour).Unix()}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = m.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestManager_IssueWithoutSecret(t *testing.T) {
	_, _, err := NewManager("", "iss", "aud", 0).Issue(1, "x")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}
