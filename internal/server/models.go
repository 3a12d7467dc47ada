package server

import (
	"time"

	"github.com/Mahesh1735/research-agent-core/models"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	ThreadID string `json:"thread_id"`
	Query    string `json:"query"`
}

// ChatResponse is returned after a completed turn.
type ChatResponse struct {
	ThreadID     string               `json:"thread_id"`
	Requirements []string             `json:"requirements"`
	Candidates   models.CandidateList `json:"candidates"`
	LastMessage  string               `json:"last_ai_message"`
}

// ThreadResponse summarises a stored thread.
type ThreadResponse struct {
	ThreadID     string               `json:"thread_id"`
	Requirements models.Requirements  `json:"requirements"`
	Candidates   models.CandidateList `json:"candidates"`
	LastMessage  string               `json:"last_ai_message"`
	Messages     int                  `json:"messages"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// HTTPError is the error body rendered by the error handler.
type HTTPError struct {
	Error string `json:"error"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Subject  string `json:"subject"`
	Password string `json:"password"`
}

// TokenResponse carries a signed JWT for Bearer flows.
type TokenResponse struct {
	Token string `json:"token"`
}
