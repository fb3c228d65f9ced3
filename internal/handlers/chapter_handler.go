package handlers

import (
	"context"
	"strconv"

	"tutor-service/internal/service"
	"tutor-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type ChapterHandler struct {
	Service *service.ChapterService
}

func NewChapterHandler(s *service.ChapterService) *ChapterHandler {
	return &ChapterHandler{Service: s}
}

func (h *ChapterHandler) ListChapters(c *gin.Context) {
	chapters, err := h.Service.ListChapters(context.Background())
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load chapters", err)
		return
	}
	utils.SuccessResponse(c, "Chapters", chapters)
}

func (h *ChapterHandler) GetChapter(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Chapter ID must be a number")
		return
	}

	chapter, err := h.Service.GetChapter(context.Background(), id)
	if err != nil {
		utils.NotFoundResponse(c, "Chapter not found")
		return
	}
	utils.SuccessResponse(c, "Chapter", chapter)
}
