// Package apitest runs an in-process stand-in for the music school backend.
//
// It speaks the same contract as the real API: form-encoded login returning a JWT,
// {detail} error bodies, 401 for missing or invalid bearer tokens and paginated CRUD
// collections. Tests point a client at Server.APIURL().
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RecordedRequest is what the stub saw of an incoming request
type RecordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	ContentType   string
	RequestID     string
}

// Server is the stub backend
type Server struct {
	*httptest.Server

	router *gin.Engine
	logger zerolog.Logger

	mu          sync.Mutex
	secret      []byte
	users       map[string]*user
	nextUserID  int
	collections map[string]*collection
	requests    []RecordedRequest
}

// NewServer starts the stub and closes it when the test ends
func NewServer(t testing.TB) *Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	s := &Server{
		logger:      zerolog.Nop(),
		secret:      newSecret(),
		users:       make(map[string]*user),
		nextUserID:  1,
		collections: make(map[string]*collection),
	}
	s.setupRouter()
	s.Server = httptest.NewServer(s.router)
	t.Cleanup(s.Close)

	return s
}

// APIURL is the base URL clients should use, including the /api prefix
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

// Requests returns every request received so far
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or false if none arrived
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) setupRouter() {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.recordRequest())

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", s.login)
	authGroup.POST("/register", s.register)
	authGroup.GET("/me", s.requireAuth(), s.me)

	protected := api.Group("")
	protected.Use(s.requireAuth())
	for _, name := range []string{"students", "teachers", "instruments", "schedule"} {
		s.registerCollection(protected, name)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	s.router = router
}

func (s *Server) recordRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			RawQuery:      c.Request.URL.RawQuery,
			Authorization: c.GetHeader("Authorization"),
			ContentType:   c.GetHeader("Content-Type"),
			RequestID:     c.GetHeader("X-Request-ID"),
		})
		s.mu.Unlock()

		c.Next()
	}
}

func respondWithDetail(c *gin.Context, statusCode int, detail string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"detail": detail})
}
