package handlers

import (
	"context"
	"net/http"

	"tutor-service/internal/middleware"
	"tutor-service/internal/repository"
	"tutor-service/internal/service"
	"tutor-service/internal/utils"
	"tutor-service/internal/workflow"

	"github.com/gin-gonic/gin"
)

type LearningHandler struct {
	Service *service.LearningService
}

func NewLearningHandler(s *service.LearningService) *LearningHandler {
	return &LearningHandler{Service: s}
}

// StartSession opens a new learning session for the authenticated user
func (h *LearningHandler) StartSession(c *gin.Context) {
	var req struct {
		ChapterID int `json:"chapter_id"`
	}
	// Body is optional; without it the session resumes the user's chapter.
	_ = c.ShouldBindJSON(&req)

	userID := middleware.UserID(c)
	state, err := h.Service.StartSession(context.Background(), userID, req.ChapterID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to start session", err)
		return
	}

	utils.SuccessResponse(c, "Session started", state.PublicView())
}

// GetSession returns the active session's public view
func (h *LearningHandler) GetSession(c *gin.Context) {
	userID := middleware.UserID(c)
	state, err := h.Service.GetSession(context.Background(), userID)
	if err != nil {
		if err == repository.ErrSessionNotFound {
			utils.NotFoundResponse(c, "No active learning session")
			return
		}
		utils.InternalErrorResponse(c, "Failed to load session", err)
		return
	}

	utils.SuccessResponse(c, "Session", state.PublicView())
}

// SendMessage feeds one user message through the learning loop
func (h *LearningHandler) SendMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	userID := middleware.UserID(c)
	result, state, err := h.Service.ProcessMessage(context.Background(), userID, req.Message)
	if err != nil {
		switch err {
		case repository.ErrSessionNotFound:
			utils.NotFoundResponse(c, "No active learning session, start one first")
		case workflow.ErrEmptyMessage:
			utils.BadRequestResponse(c, "Message must not be empty")
		default:
			utils.InternalErrorResponse(c, "Failed to process message", err)
		}
		return
	}

	utils.SuccessResponse(c, "Message processed", turnResponse(result, state))
}

// turnResponse shapes one orchestrator turn for the frontend, which renders
// from the UI mode, message and widget payload only. The internal stage stays
// server-side.
func turnResponse(result *workflow.TurnResult, state *workflow.SessionState) gin.H {
	data := gin.H{
		"message":     result.Message,
		"ui_mode":     result.UIMode,
		"chapter_id":  state.ChapterID,
		"ui_elements": result.UIElements,
	}
	if result.Evaluation != nil {
		data["evaluation"] = result.Evaluation
	}
	if result.LoopCompleted {
		data["loop_completed"] = true
	}
	return data
}

// EndSession closes the active session
func (h *LearningHandler) EndSession(c *gin.Context) {
	userID := middleware.UserID(c)
	summary, err := h.Service.EndSession(context.Background(), userID)
	if err != nil {
		if err == repository.ErrSessionNotFound {
			utils.NotFoundResponse(c, "No active learning session")
			return
		}
		utils.InternalErrorResponse(c, "Failed to end session", err)
		return
	}

	data := gin.H{}
	if summary != nil {
		data["final_summary"] = summary
	}
	utils.SuccessResponse(c, "Session ended", data)
}

// GetProgress reports the user's chapter, stage and recent loop history
func (h *LearningHandler) GetProgress(c *gin.Context) {
	userID := middleware.UserID(c)
	progress, err := h.Service.GetProgress(context.Background(), userID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load progress", err)
		return
	}

	utils.SuccessResponse(c, "Progress", progress)
}
