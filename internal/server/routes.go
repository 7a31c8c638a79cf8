package server

import "net/http"

// Handler returns the routed and logged HTTP handler.
func (s *ServerContext) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/layers", s.HandleLayersList)
	mux.HandleFunc("/api/graticule", s.HandleGraticule)
	mux.HandleFunc("/layers/", s.HandleLayer)

	return RequestLogger(mux)
}
