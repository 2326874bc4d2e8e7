package apitest

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/msctl-dev/msctl/internal/assert"
)

const (
	secretSize     = 32
	bearerPrefix   = "Bearer "
	tokenLifetime  = 30 * time.Minute
	userContextKey = "user"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
)

type user struct {
	ID             int
	Email          string
	HashedPassword []byte
	CreatedAt      time.Time
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func newSecret() []byte {
	secret := make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		panic(fmt.Sprintf("failed to generate secret: %v", err))
	}
	assert.Length(secret, secretSize)
	return secret
}

// AddUser creates an account directly, bypassing /auth/register
func (s *Server) AddUser(email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.addUserLocked(email, password)
	return err
}

func (s *Server) addUserLocked(email, password string) (*user, error) {
	if _, exists := s.users[email]; exists {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user{
		ID:             s.nextUserID,
		Email:          email,
		HashedPassword: hash,
		CreatedAt:      time.Now().UTC(),
	}
	s.nextUserID++
	s.users[email] = u
	return u, nil
}

// IssueToken signs a token for an existing account
func (s *Server) IssueToken(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return "", fmt.Errorf("user %s not found", email)
	}
	return s.signLocked(u)
}

// RevokeAll rotates the signing secret; every issued token stops validating
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = newSecret()
}

func (s *Server) signLocked(u *user) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(u.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Server) validateToken(tokenString string) (*user, error) {
	s.mu.Lock()
	secret := s.secret
	s.mu.Unlock()

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strconv.Itoa(u.ID) == claims.Subject {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s not found", claims.Subject)
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			respondWithDetail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		u, err := s.validateToken(token)
		if err != nil {
			s.logger.Debug().Err(err).Msg("Rejected bearer token")
			c.Header("WWW-Authenticate", "Bearer")
			respondWithDetail(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		c.Set(userContextKey, u)
		c.Next()
	}
}

func (s *Server) login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		respondWithDetail(c, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	s.mu.Lock()
	u, ok := s.users[email]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(u.HashedPassword, []byte(password)) != nil {
		c.Header("WWW-Authenticate", "Bearer")
		respondWithDetail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	s.mu.Lock()
	token, err := s.signLocked(u)
	s.mu.Unlock()
	if err != nil {
		respondWithDetail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithDetail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	u, err := s.addUserLocked(req.Email, req.Password)
	s.mu.Unlock()
	if err != nil {
		respondWithDetail(c, http.StatusBadRequest, "Email already registered")
		return
	}

	c.JSON(http.StatusCreated, userResponse(u))
}

func (s *Server) me(c *gin.Context) {
	u := c.MustGet(userContextKey).(*user)
	c.JSON(http.StatusOK, userResponse(u))
}

func userResponse(u *user) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"created_at": u.CreatedAt.Format("2006-01-02T15:04:05.000000"),
	}
}
