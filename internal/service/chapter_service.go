package service

import (
	"context"

	"tutor-service/internal/models"
	"tutor-service/internal/repository"
)

type ChapterService struct {
	Repo *repository.ChapterRepository
}

func NewChapterService(repo *repository.ChapterRepository) *ChapterService {
	return &ChapterService{Repo: repo}
}

func (s *ChapterService) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	return s.Repo.FindAll(ctx)
}

func (s *ChapterService) GetChapter(ctx context.Context, id int) (*models.Chapter, error) {
	return s.Repo.FindByID(ctx, id)
}
