package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// defaultPort is used when no metrics port is configured.
const defaultPort = 9090

// NewHTTPServer creates the HTTP server that exposes Prometheus metrics at
// /metrics. It runs separately from the API server so scrapes stay available
// while the proxy drains.
func NewHTTPServer(address string, port int) *http.Server {
	if port == 0 {
		port = defaultPort
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", address, port),
		Handler: mux,
	}
}
