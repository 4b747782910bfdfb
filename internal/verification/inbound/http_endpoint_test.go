package inbound

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takonote/verigate/internal/pkg/config"
	"github.com/takonote/verigate/internal/pkg/goerror"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/pkg/router"
	"github.com/takonote/verigate/internal/pkg/uid"
	"github.com/takonote/verigate/internal/verification/usecase"
)

const testAPIKey = "admin-test-key"

type fakeUC struct {
	requestCodeOut *usecase.RequestCodeOutput
	requestCodeErr error
	verifyErr      error
	setBlockErr    error
	findOut        *usecase.FindReceiverOutput
	findErr        error

	gotReceiver string
	gotCode     string
	gotPassport string
}

func (f *fakeUC) RequestCode(_ context.Context, in usecase.RequestCodeInput) (*usecase.RequestCodeOutput, error) {
	f.gotReceiver = in.Receiver
	return f.requestCodeOut, f.requestCodeErr
}

func (f *fakeUC) VerifyCode(_ context.Context, in usecase.VerifyCodeInput) error {
	f.gotReceiver = in.Receiver
	f.gotCode = in.Code
	return f.verifyErr
}

func (f *fakeUC) SetBlock(_ context.Context, in usecase.SetBlockInput) error {
	f.gotReceiver = in.Receiver
	return f.setBlockErr
}

func (f *fakeUC) FindReceiver(_ context.Context, in usecase.FindReceiverInput) (*usecase.FindReceiverOutput, error) {
	f.gotPassport = in.PassportNumber
	return f.findOut, f.findErr
}

func newTestServer(t *testing.T, uc *fakeUC) *httptest.Server {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("{}"))
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, uc, testAPIKey)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, payload any, apiKey string) (int, envelope) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		body = &bytes.Buffer{}
		require.NoError(t, json.NewEncoder(body).Encode(payload))
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)

	return resp.StatusCode, env
}

func TestHTTPEndpoint_RequestCode(t *testing.T) {
	t.Run("IssuesCode", func(t *testing.T) {
		uc := &fakeUC{requestCodeOut: &usecase.RequestCodeOutput{RemainingBlockSeconds: 30, Code: "123456"}}
		srv := newTestServer(t, uc)

		status, env := doJSON(t, srv, http.MethodPatch, "/security/session?receiver=79024327692", nil, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "79024327692", uc.gotReceiver)

		var data RequestCodeResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, int64(30), data.BlockSeconds)
		assert.Equal(t, "123456", data.Code)
	})

	t.Run("BlockedReceiver", func(t *testing.T) {
		uc := &fakeUC{requestCodeErr: goerror.NewBlocked(42)}
		srv := newTestServer(t, uc)

		status, env := doJSON(t, srv, http.MethodPatch, "/security/session?receiver=79024327692", nil, "")
		assert.Equal(t, http.StatusNotAcceptable, status)
		assert.Equal(t, "Receiver is temporarily blocked", env.Message)
		assert.Equal(t, "42", env.Error["remaining_seconds"])
	})
}

func TestHTTPEndpoint_VerifyCode(t *testing.T) {
	t.Run("CorrectCode", func(t *testing.T) {
		uc := &fakeUC{}
		srv := newTestServer(t, uc)

		status, env := doJSON(t, srv, http.MethodPost, "/security/session/verification", VerifyCodeRequest{
			MobilePhone:      "79024327692",
			VerificationCode: "123456",
		}, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Verification code is correct", env.Message)
		assert.Equal(t, "79024327692", uc.gotReceiver)
		assert.Equal(t, "123456", uc.gotCode)
	})

	t.Run("WrongCode", func(t *testing.T) {
		uc := &fakeUC{verifyErr: goerror.NewInvalidCode("Verification code is invalid")}
		srv := newTestServer(t, uc)

		status, env := doJSON(t, srv, http.MethodPost, "/security/session/verification", VerifyCodeRequest{
			MobilePhone:      "79024327692",
			VerificationCode: "000000",
		}, "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Verification code is invalid", env.Message)
	})
}

func TestHTTPEndpoint_SetBlock(t *testing.T) {
	t.Run("RequiresAPIKey", func(t *testing.T) {
		uc := &fakeUC{}
		srv := newTestServer(t, uc)

		status, _ := doJSON(t, srv, http.MethodPatch, "/security/session/verification", SetBlockRequest{
			MobilePhone: "79024327692",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Empty(t, uc.gotReceiver)
	})

	t.Run("BlocksReceiver", func(t *testing.T) {
		uc := &fakeUC{}
		srv := newTestServer(t, uc)

		status, env := doJSON(t, srv, http.MethodPatch, "/security/session/verification", SetBlockRequest{
			MobilePhone: "79024327692",
		}, testAPIKey)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Receiver has been blocked", env.Message)
		assert.Equal(t, "79024327692", uc.gotReceiver)
	})
}

func TestHTTPEndpoint_FindReceiver(t *testing.T) {
	t.Run("ReturnsPhone", func(t *testing.T) {
		uc := &fakeUC{findOut: &usecase.FindReceiverOutput{MobilePhone: "79024327692"}}
		srv := newTestServer(t, uc)

		status, env := doJSON(t, srv, http.MethodPost, "/security/session", FindReceiverRequest{
			PassportNumber: "AB123456",
		}, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "AB123456", uc.gotPassport)

		var data FindReceiverResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "79024327692", data.MobilePhone)
	})

	t.Run("UnknownPassport", func(t *testing.T) {
		uc := &fakeUC{findErr: goerror.NewNotFound("Client not found")}
		srv := newTestServer(t, uc)

		status, env := doJSON(t, srv, http.MethodPost, "/security/session", FindReceiverRequest{
			PassportNumber: "ZZ999999",
		}, "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Client not found", env.Message)
	})
}
