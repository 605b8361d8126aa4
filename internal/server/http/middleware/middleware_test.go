package middleware

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/mkarpova/storefront/internal/pkg/auth"
	testhelpers "github.com/mkarpova/storefront/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authProtectedRouter(parser TokenParser) (*gin.Engine, *string) {
	router := gin.New()
	var seenUser string
	router.GET("/protected", AuthRequired(parser), func(c *gin.Context) {
		val, _ := c.Get(UserIDContextKey)
		seenUser, _ = val.(string)
		c.Status(http.StatusOK)
	})
	return router, &seenUser
}

func TestAuthRequiredMissingToken(t *testing.T) {
	router, _ := authProtectedRouter(testhelpers.TokenParserStub{ID: "user-1"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRequiredBearerToken(t *testing.T) {
	router, seenUser := authProtectedRouter(testhelpers.TokenParserStub{ID: "user-7"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if *seenUser != "user-7" {
		t.Fatalf("expected user-7 in context, got %q", *seenUser)
	}
}

func TestAuthRequiredCookieToken(t *testing.T) {
	router, seenUser := authProtectedRouter(testhelpers.TokenParserStub{ID: "user-9"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "storefront_token", Value: "sometoken"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if *seenUser != "user-9" {
		t.Fatalf("expected user-9 in context, got %q", *seenUser)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	router, _ := authProtectedRouter(testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer junk")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRequiredParserFailure(t *testing.T) {
	router, _ := authProtectedRouter(testhelpers.TokenParserStub{Err: errors.New("backend down")})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestSetAuthCookie(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	SetAuthCookie(c, "tok-1")
	if got := c.Writer.Header().Get("Authorization"); got != "Bearer tok-1" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) == 0 {
		t.Fatal("expected auth cookie to be set")
	}
}

func TestDecompressRequest(t *testing.T) {
	router := gin.New()
	router.Use(DecompressRequest())
	var got string
	router.POST("/", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		got = string(body)
		c.Status(http.StatusOK)
	})

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(`{"hello":"world"}`))
	_ = zw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != `{"hello":"world"}` {
		t.Fatalf("body not decompressed: %q", got)
	}
}

func TestDecompressRequestBadBody(t *testing.T) {
	router := gin.New()
	router.Use(DecompressRequest())
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not gzip")))
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"path":"/ping"`)) {
		t.Fatalf("request not logged: %s", buf.String())
	}
}
