package http

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Values []float64 `json:"values" validate:"required,min=2,dive,finite"`
	Mode   string    `json:"mode" default:"fast" validate:"oneof=fast slow"`
}

type sampleHandler struct{}

func (sampleHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/sample", func(c echo.Context) error {
		var req sampleRequest
		if errs := ReadAndValidateRequest(c, &req); errs != nil {
			return BadRequestResponse(c, errs)
		}
		return SuccessResponse(c, req)
	})
	e.GET("/boom", func(c echo.Context) error {
		return InvalidInputError("series", "too short")
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("kaboom")
	})
}

func newTestServer() *Server {
	reg := prometheus.NewRegistry()
	return NewServer(sampleHandler{}, WithRegistry(reg, reg))
}

func serve(s *Server, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	var env APIResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestReadAndValidateRequestDefaults(t *testing.T) {
	_, env := serve(newTestServer(), http.MethodPost, "/sample", `{"values":[1,2,3]}`)
	assert.Equal(t, http.StatusOK, env.Status)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, "fast", data["mode"])
}

func TestReadAndValidateRequestErrors(t *testing.T) {
	_, env := serve(newTestServer(), http.MethodPost, "/sample", `{"values":[1],"mode":"medium"}`)
	assert.Equal(t, http.StatusBadRequest, env.Status)

	raw, _ := json.Marshal(env.Data)
	var errs []ValidationError
	require.NoError(t, json.Unmarshal(raw, &errs))
	require.Len(t, errs, 2)
	assert.Equal(t, "ERR_MIN", errs[0].Code)
	assert.Equal(t, "ERR_ONEOF", errs[1].Code)
	assert.Equal(t, []interface{}{"fast", "slow"}, errs[1].Params["options"])

	_, env = serve(newTestServer(), http.MethodPost, "/sample", `{"values":`)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestFiniteValidation(t *testing.T) {
	errs := ApplyDefaultsAndValidate(context.Background(), &sampleRequest{Values: []float64{1, math.Inf(1)}})
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_FINITE", errs[0].Code)
	assert.Contains(t, errs[0].Message, "finite")

	req := &sampleRequest{Values: []float64{1, 2}}
	assert.Nil(t, ApplyDefaultsAndValidate(context.Background(), req))
	assert.Equal(t, "fast", req.Mode)

	assert.NoError(t, validate.Var(1.5, "finite"))
	assert.Error(t, validate.Var(math.NaN(), "finite"))
}

func TestServerErrorEnvelopes(t *testing.T) {
	s := newTestServer()

	_, env := serve(s, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusBadRequest, env.Status)

	_, env = serve(s, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, env.Status)
	raw, _ := json.Marshal(env.Data)
	var errs []AppError
	require.NoError(t, json.Unmarshal(raw, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_NOT_FOUND", errs[0].Code)

	rec, env := serve(s, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusInternalServerError, env.Status)
}

func TestServerHealthAndMetrics(t *testing.T) {
	s := newTestServer()

	_, env := serve(s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, env.Status)

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestClientCall(t *testing.T) {
	s := newTestServer()
	ts := httptest.NewServer(s.Echo())
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))

	var out sampleRequest
	require.NoError(t, c.Call(context.Background(), MethodPost, "/sample", sampleRequest{Values: []float64{1, 2}}, &out))
	assert.Equal(t, "fast", out.Mode)

	err := c.Call(context.Background(), MethodPost, "sample", sampleRequest{Values: []float64{1}}, &out)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "ERR_MIN", appErr.Code)

	err = c.Call(context.Background(), MethodGet, "/boom", nil, nil)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ERR_INVALID_INPUT", appErr.Code)
	assert.Equal(t, "too short", appErr.Message)
}

func TestServerCORSPreflight(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/sample", nil)
	req.Header.Set(echo.HeaderOrigin, "http://dashboard.local")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))
}
