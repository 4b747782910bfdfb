package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takonote/verigate/internal/pkg/goerror"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/pkg/uid"
)

func newTestRouter() *Router {
	return NewRouter(Config{
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
}

func TestRouter_SuccessEnvelope(t *testing.T) {
	ro := newTestRouter()
	ro.GET("/ping", func(r *Request) (any, error) {
		return map[string]string{"pong": "ok"}, nil
	})

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pong":"ok"`)
	assert.NotEmpty(t, rec.Header().Get(HeaderCorrelationID))
}

func TestRouter_ErrorMapping(t *testing.T) {
	ro := newTestRouter()
	ro.PATCH("/session", func(r *Request) (any, error) {
		return nil, goerror.NewBlocked(481)
	})
	ro.POST("/session", func(r *Request) (any, error) {
		return nil, goerror.NewInvalidCode("Verification code is invalid")
	})

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/session", nil))
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"remaining_seconds":"481"`)

	rec = httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Verification code is invalid")
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	ro := newTestRouter()
	ro.GET("/only-get", func(r *Request) (any, error) { return nil, nil })

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-get", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_PanicRecovered(t *testing.T) {
	ro := newTestRouter()
	ro.GET("/boom", func(r *Request) (any, error) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddlewareAPIKey(t *testing.T) {
	ro := newTestRouter()
	ro.PATCH("/admin", func(r *Request) (any, error) {
		return nil, nil
	}, MiddlewareAPIKey("sekrit"))

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPatch, "/admin", nil)
	req.Header.Set(HeaderAPIKey, "sekrit")
	rec = httptest.NewRecorder()
	ro.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequest_DecodeBody(t *testing.T) {
	req := &Request{Request: httptest.NewRequest(
		http.MethodPost, "/", strings.NewReader(`{"mobilePhone":"79024327692"}`),
	)}

	var dst struct {
		MobilePhone string `json:"mobilePhone"`
	}
	require.NoError(t, req.DecodeBody(&dst))
	assert.Equal(t, "79024327692", dst.MobilePhone)

	req = &Request{Request: httptest.NewRequest(
		http.MethodPost, "/", strings.NewReader(`{"unknown":"x"}`),
	)}
	assert.Error(t, req.DecodeBody(&dst))
}

func TestNormalizeCID(t *testing.T) {
	assert.Empty(t, normalizeCID("bad\r\nvalue"))
	assert.Empty(t, normalizeCID("   "))
	assert.Equal(t, "abc", normalizeCID(" abc "))
	assert.Len(t, normalizeCID(strings.Repeat("x", 300)), 128)
}
