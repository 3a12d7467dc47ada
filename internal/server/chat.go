package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Mahesh1735/research-agent-core/internal/agent"
	"github.com/Mahesh1735/research-agent-core/models"
)

// TurnHandler runs one conversational turn.
type TurnHandler interface {
	HandleTurn(ctx context.Context, threadID, userText string) (agent.TurnResult, error)
}

// StateReader loads a stored thread.
type StateReader interface {
	Load(ctx context.Context, threadID string) (*models.ConversationState, error)
}

type ChatHandler struct {
	Turns  TurnHandler
	States StateReader
	Logger *zap.Logger
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("", h.chat)
	g.GET("/:thread_id", h.thread)
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	res, err := h.Turns.HandleTurn(c.Request().Context(), req.ThreadID, req.Query)
	if err != nil {
		if errors.Is(err, models.ErrEmptyMessage) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if h.Logger != nil {
		sub, _ := SubjectFromContext(c.Request().Context())
		h.Logger.Debug("turn completed",
			zap.String("thread_id", res.ThreadID),
			zap.String("subject", sub),
			zap.Int("candidates", len(res.Candidates)))
	}
	return c.JSON(http.StatusOK, ChatResponse{
		ThreadID:     res.ThreadID,
		Requirements: res.Requirements,
		Candidates:   res.Candidates,
		LastMessage:  res.LastMessage,
	})
}

func (h *ChatHandler) thread(c echo.Context) error {
	id := strings.TrimSpace(c.Param("thread_id"))
	st, err := h.States.Load(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrThreadNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	st.Normalize()
	last := ""
	for i := len(st.Messages) - 1; i >= 0; i-- {
		if m := st.Messages[i]; m.Role == models.RoleAssistant && m.Content != "" {
			last = m.Content
			break
		}
	}
	return c.JSON(http.StatusOK, ThreadResponse{
		ThreadID:     st.ThreadID,
		Requirements: st.Requirements,
		Candidates:   st.Candidates.Stripped(),
		LastMessage:  last,
		Messages:     len(st.Messages),
		UpdatedAt:    st.UpdatedAt,
	})
}
