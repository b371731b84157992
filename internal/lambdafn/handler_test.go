package lambdafn

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcade/internal/api"
	"arcade/internal/config"
	"arcade/internal/store"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	cfg := config.Default()
	cfg.RateRPS = 0
	s := api.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), store.NewMemory(), api.NewBroker())
	return New(s.Handler())
}

const packing = `{"budget":50,"max_weight":5,"items":[
	{"name":"a","value":60,"cost":10,"weight":1},
	{"name":"b","value":100,"cost":20,"weight":2},
	{"name":"c","value":120,"cost":30,"weight":3}]}`

func post(path, body string) events.LambdaFunctionURLRequest {
	ev := events.LambdaFunctionURLRequest{RawPath: path, Body: body}
	ev.RequestContext.HTTP.Method = http.MethodPost
	return ev
}

func TestExplicitPath(t *testing.T) {
	resp, err := newHandler(t).Handle(context.Background(), post("/api/packing/solve", packing))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	var res struct {
		TotalValue float64 `json:"total_value"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &res))
	assert.Equal(t, 220.0, res.TotalValue)
}

func TestSniffedRoot(t *testing.T) {
	h := newHandler(t)
	body := `{"compare":true,` + packing[1:]
	resp, err := h.Handle(context.Background(), post("/", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	assert.Contains(t, resp.Body, `"dp_better":true`)

	route := `{"home":"h","home_location":{"x":0,"y":0},"stops":[{"name":"a","address":"a","location":{"x":3,"y":4}}]}`
	ev := events.LambdaFunctionURLRequest{Body: base64.StdEncoding.EncodeToString([]byte(route)), IsBase64Encoded: true}
	resp, err = h.Handle(context.Background(), ev)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	assert.Contains(t, resp.Body, `"total_distance":10`)
}

func TestBadInvocations(t *testing.T) {
	h := newHandler(t)
	for name, ev := range map[string]events.LambdaFunctionURLRequest{
		"not json":   post("/", "{"),
		"no kind":    post("/", `{"budget":1}`),
		"bad base64": {Body: "%%%", IsBase64Encoded: true},
	} {
		resp, err := h.Handle(context.Background(), ev)
		require.NoError(t, err, name)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
	}

	resp, err := h.Handle(context.Background(), post("/api/packing/solve", `{"budget":0,"max_weight":1,"items":[]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetRoot(t *testing.T) {
	ev := events.LambdaFunctionURLRequest{RawPath: "/health"}
	ev.RequestContext.HTTP.Method = http.MethodGet
	resp, err := newHandler(t).Handle(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body)
}
