package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drooschuck/funwithflag/internal/quiz"
)

type SessionHandler struct {
	controller *quiz.Controller
}

func NewSessionHandler(controller *quiz.Controller) *SessionHandler {
	return &SessionHandler{controller: controller}
}

type AnswerRequest struct {
	Option string `json:"option" binding:"required" example:"France"`
}

// CreateSession godoc
// @Summary      Start a quiz session
// @Description  Create a fresh session over the full question catalog, positioned at the first question
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} quiz.Snapshot
// @Router       /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	snap := h.controller.Start()
	c.JSON(http.StatusCreated, snap)
}

// GetSession godoc
// @Summary      Get session state
// @Description  Current snapshot of a session: question, options, score, evaluation, fun facts
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Success      200 {object} quiz.Snapshot
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	snap, err := h.controller.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// SubmitAnswer godoc
// @Summary      Answer the current question
// @Description  Apply an option pick to the session. Picks made after the question is already settled are ignored and the unchanged snapshot is returned.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Param        request body AnswerRequest true "Chosen option"
// @Success      200 {object} quiz.Snapshot
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/answer [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	snap, err := h.controller.SelectOption(c.Param("id"), req.Option)
	if err != nil {
		if errors.Is(err, quiz.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// RestartSession godoc
// @Summary      Restart a session
// @Description  Rewind the session to the first question with a zero score
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Success      200 {object} quiz.Snapshot
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/restart [post]
func (h *SessionHandler) RestartSession(c *gin.Context) {
	snap, err := h.controller.Restart(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// DeleteSession godoc
// @Summary      Discard a session
// @Description  Drop the session entirely, e.g. when the browser tab closes
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.controller.Discard(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "session discarded"})
}
