package http

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/mock"
)

const testToken = "shared-secret"

func newTestServer(t *testing.T, ctrl *gomock.Controller) (*httptest.Server, *mock.MockKVStorage) {
	t.Helper()
	storage := mock.NewMockKVStorage(ctrl)
	handler := NewHandler(storage, testToken, logger.Nop())

	srv := httptest.NewServer(handler.Init())
	t.Cleanup(srv.Close)
	return srv, storage
}

func postCommand(t *testing.T, srv *httptest.Server, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/", strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(body))
}

func TestCommand_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, storage := newTestServer(t, ctrl)
	storage.EXPECT().Get(gomock.Any(), "user:admin").Return(`{"username":"admin"}`, true, nil)

	resp := postCommand(t, srv, testToken, `["GET","user:admin"]`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"result":"{\"username\":\"admin\"}"}`, readBody(t, resp))
}

func TestCommand_GetMissingKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, storage := newTestServer(t, ctrl)
	storage.EXPECT().Get(gomock.Any(), "user:ghost").Return("", false, nil)

	resp := postCommand(t, srv, testToken, `["GET","user:ghost"]`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"result":null}`, readBody(t, resp))
}

func TestCommand_Set(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, storage := newTestServer(t, ctrl)
	storage.EXPECT().Set(gomock.Any(), "user:admin", `{"username":"admin"}`).Return(nil)

	resp := postCommand(t, srv, testToken, `["SET","user:admin","{\"username\":\"admin\"}"]`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"result":"OK"}`, readBody(t, resp))
}

func TestCommand_Del(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, storage := newTestServer(t, ctrl)
	storage.EXPECT().Del(gomock.Any(), "agendamento:1").Return(int64(1), nil)

	resp := postCommand(t, srv, testToken, `["DEL","agendamento:1"]`)
	assert.JSONEq(t, `{"result":1}`, readBody(t, resp))
}

func TestCommand_Keys(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, storage := newTestServer(t, ctrl)
	storage.EXPECT().Keys(gomock.Any(), "pagamento:*").Return([]string{"pagamento:1"}, nil)

	resp := postCommand(t, srv, testToken, `["KEYS","pagamento:*"]`)
	assert.JSONEq(t, `{"result":["pagamento:1"]}`, readBody(t, resp))
}

func TestCommand_KeysEmptyResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, storage := newTestServer(t, ctrl)
	storage.EXPECT().Keys(gomock.Any(), "nada:*").Return(nil, nil)

	resp := postCommand(t, srv, testToken, `["KEYS","nada:*"]`)
	assert.JSONEq(t, `{"result":[]}`, readBody(t, resp), "an empty scan must encode as [], not null")
}

func TestCommand_CaseInsensitiveName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, storage := newTestServer(t, ctrl)
	storage.EXPECT().Get(gomock.Any(), "user:admin").Return("v", true, nil)

	resp := postCommand(t, srv, testToken, `["get","user:admin"]`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCommand_UnknownCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, _ := newTestServer(t, ctrl)

	resp := postCommand(t, srv, testToken, `["FLUSHALL"]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "unknown command")
}

func TestCommand_WrongArgumentCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, _ := newTestServer(t, ctrl)

	resp := postCommand(t, srv, testToken, `["SET","only-key"]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommand_MalformedBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, _ := newTestServer(t, ctrl)

	resp := postCommand(t, srv, testToken, `{"not":"an array"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommand_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, storage := newTestServer(t, ctrl)
	storage.EXPECT().Get(gomock.Any(), "user:admin").Return("", false, errors.New("disk on fire"))

	resp := postCommand(t, srv, testToken, `["GET","user:admin"]`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, readBody(t, resp), "disk on fire", "driver details must not leak to clients")
}

func TestAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, _ := newTestServer(t, ctrl)

	resp := postCommand(t, srv, "", `["GET","user:admin"]`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_WrongToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, _ := newTestServer(t, ctrl)

	resp := postCommand(t, srv, "wrong-token", `["GET","user:admin"]`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPing_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, _ := newTestServer(t, ctrl)

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-Id"))
}
