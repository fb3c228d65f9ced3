package service

import (
	"context"
	"errors"
	"time"

	"tutor-service/internal/models"
	"tutor-service/internal/repository"
	"tutor-service/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrLoginIDTaken       = errors.New("login id already exists")
	ErrInvalidCredentials = errors.New("invalid login id or password")
)

type AuthService struct {
	Users *repository.UserRepository
}

func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{Users: users}
}

// Register creates a new user with a bcrypt-hashed password and returns the
// stored user.
func (s *AuthService) Register(ctx context.Context, loginID, email, password, userType, userLevel string) (*models.User, error) {
	if _, err := s.Users.FindByLoginID(ctx, loginID); err == nil {
		return nil, ErrLoginIDTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if userType == "" {
		userType = models.UserTypeBeginner
	}
	if userLevel == "" {
		userLevel = models.UserLevelMedium
	}

	user := &models.User{
		LoginID:        loginID,
		Email:          email,
		PasswordHash:   string(hash),
		UserType:       userType,
		UserLevel:      userLevel,
		CurrentChapter: 1,
		CreatedAt:      time.Now(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns the user with a signed JWT.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*models.User, string, error) {
	user, err := s.Users.FindByLoginID(ctx, loginID)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
