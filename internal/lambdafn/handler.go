// Package lambdafn adapts the HTTP API to AWS Lambda function URLs.
package lambdafn

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// Handler replays function URL invocations against an http.Handler.
type Handler struct {
	api http.Handler
}

func New(api http.Handler) *Handler { return &Handler{api: api} }

// Handle serves one invocation. A POST to "/" is routed by sniffing the body:
// "items" means packing and "stops" means route, and "compare": true picks
// the compare operation.
func (h *Handler) Handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	method := event.RequestContext.HTTP.Method
	if method == "" {
		method = http.MethodGet
		if body != "" {
			method = http.MethodPost
		}
	}
	path := event.RawPath
	if path == "" || path == "/" {
		if method != http.MethodPost {
			path = "/"
		} else {
			p, msg := sniffPath(body)
			if p == "" {
				return errResp(http.StatusBadRequest, msg)
			}
			path = p
		}
	}
	target := path
	if event.RawQueryString != "" {
		target += "?" + event.RawQueryString
	}

	req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(body))
	if err != nil {
		return errResp(http.StatusBadRequest, err.Error())
	}
	for k, v := range event.Headers {
		req.Header.Set(k, v)
	}
	req.RemoteAddr = event.RequestContext.HTTP.SourceIP

	w := &bufferedWriter{header: http.Header{}, status: http.StatusOK}
	h.api.ServeHTTP(w, req)

	headers := make(map[string]string, len(w.header))
	for k := range w.header {
		headers[k] = w.header.Get(k)
	}
	return events.LambdaFunctionURLResponse{StatusCode: w.status, Headers: headers, Body: w.buf.String()}, nil
}

func sniffPath(body string) (string, string) {
	if !gjson.Valid(body) {
		return "", "invalid JSON body"
	}
	var kind string
	switch {
	case gjson.Get(body, "items").IsArray():
		kind = "packing"
	case gjson.Get(body, "stops").IsArray():
		kind = "route"
	default:
		return "", "body needs an items or stops array"
	}
	op := "solve"
	if gjson.Get(body, "compare").Bool() {
		op = "compare"
	}
	return "/api/" + kind + "/" + op, ""
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

type bufferedWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
	buf         bytes.Buffer
}

func (w *bufferedWriter) Header() http.Header { return w.header }

func (w *bufferedWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.status = code
	w.wroteHeader = true
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	w.wroteHeader = true
	return w.buf.Write(p)
}
