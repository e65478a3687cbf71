package chattest

import (
	"net/http/httptest"
	"strings"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/labstack/echo/v4"
)

// Server runs a hub on a loopback address.
type Server struct {
	*Hub

	http *httptest.Server
}

func NewServer(log logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	hub := NewHub(log)
	hub.Register(e, "/")

	return &Server{
		Hub:  hub,
		http: httptest.NewServer(e),
	}
}

func (s *Server) Url() string {
	return "ws" + strings.TrimPrefix(s.http.URL, "http")
}

func (s *Server) Close() {
	s.Hub.Close()
	s.http.Close()
}
