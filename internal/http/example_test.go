package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/fyrsmithlabs/jsondistill/internal/distill"
	httpserver "github.com/fyrsmithlabs/jsondistill/internal/http"
	"github.com/fyrsmithlabs/jsondistill/internal/logging"
)

// ExampleServer serves a fingerprint request through the router without
// binding a port.
func ExampleServer() {
	svc, err := distill.NewService(distill.ServiceConfig{})
	if err != nil {
		panic(err)
	}

	cfg := httpserver.DefaultConfig()
	cfg.RateLimit = 0

	server, err := httpserver.NewServer(svc, logging.Nop(), cfg)
	if err != nil {
		panic(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fingerprint", strings.NewReader(`42`))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	var resp httpserver.FingerprintResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		panic(err)
	}

	fmt.Println(rec.Code, resp.Fingerprint)
	// Output: 200 4e71a711
}
