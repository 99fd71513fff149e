package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestParseJWT(t *testing.T) {
	token, err := IssueJWT("gardener", time.Hour, secret)
	require.NoError(t, err)

	claims, err := ParseJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "gardener", claims.Subject)
}

func TestParseJWT_Rejects(t *testing.T) {
	expired, err := IssueJWT("gardener", -time.Minute, secret)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString(secret)
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "gardener"},
	}).SignedString(secret)
	require.NoError(t, err)

	good, err := IssueJWT("gardener", time.Hour, secret)
	require.NoError(t, err)

	cases := map[string]struct {
		token  string
		secret []byte
	}{
		"empty token":  {"", secret},
		"empty secret": {good, nil},
		"wrong secret": {good, []byte("other")},
		"expired":      {expired, secret},
		"no subject":   {noSubject, secret},
		"wrong method": {wrongAlg, secret},
		"not a jwt":    {"abc.def.ghi", secret},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJWT(tc.token, tc.secret)
			assert.Error(t, err)
		})
	}
}

func newEngine(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(secret))
	r.GET("/whoami", func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, claims.Subject)
	})
	return r
}

func TestMiddleware(t *testing.T) {
	r := newEngine(secret)

	req := httptest.NewRequest("GET", "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := IssueJWT("gardener", time.Hour, secret)
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gardener", w.Body.String())
}

func TestMiddleware_Disabled(t *testing.T) {
	r := newEngine(nil)

	req := httptest.NewRequest("GET", "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}
