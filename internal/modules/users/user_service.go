package users

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"commute-watch/internal/models"
	emailSvc "commute-watch/pkg/email"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ServiceInterface defines methods for user business logic.
type ServiceInterface interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetUserProfile(ctx context.Context, userID string) (*models.User, error)
}

type Service struct {
	userRepo        RepositoryInterface
	emailer         emailSvc.ServiceInterface
	templateManager *emailSvc.TemplateManager
	jwtSecret       string
	clientOrigin    string
}

func NewService(
	userRepo RepositoryInterface,
	emailer emailSvc.ServiceInterface,
	tm *emailSvc.TemplateManager,
	jwtSecret string,
	clientOrigin string,
) ServiceInterface {
	return &Service{
		userRepo:        userRepo,
		emailer:         emailer,
		templateManager: tm,
		jwtSecret:       jwtSecret,
		clientOrigin:    clientOrigin,
	}
}

func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	// 1. Check if user with that email already exists
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.Signup.FindByEmail: %w", err)
	}
	if err == nil {
		return nil, models.ErrConflict
	}

	// 2. Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Signup.HashPassword: %w", err)
	}

	// 3. Create the user
	createdUser, err := s.userRepo.Create(ctx, req.Email, string(hashedPassword))
	if err != nil {
		return nil, fmt.Errorf("service.Signup.CreateUser: %w", err)
	}

	// 4. Send welcome email without blocking the signup response.
	s.sendWelcomeEmail(createdUser)

	return s.generateAuthResponse(createdUser)
}

func (s *Service) sendWelcomeEmail(user *models.User) {
	if s.emailer == nil || s.templateManager == nil {
		return
	}

	htmlContent, err := s.templateManager.GenerateWelcomeEmailHTML(emailSvc.TemplateData{
		Name: user.Email,
		Link: s.clientOrigin + "/dashboard",
	})
	if err != nil {
		log.Printf("Failed to generate welcome email HTML: %v", err)
		return
	}

	subject := "Welcome! Your commute tracking is ready"
	plainText := fmt.Sprintf("Your account is ready. Add your first route at %s/dashboard and traffic checks will start at your scheduled times.", s.clientOrigin)

	go func() {
		if err := s.emailer.SendEmail(context.Background(), user.Email, subject, plainText, htmlContent); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}()
}

// generateAuthResponse signs a JWT for the user.
func (s *Service) generateAuthResponse(user *models.User) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24 * 30)), // 30 days expiry
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenSignedString, err := accessToken.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	user.PasswordHash = "" // Do NOT send sensitive info back

	return &models.AuthResponse{
		AccessToken: tokenSignedString,
		User:        user,
	}, nil
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	userWithHash, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login.FindByEmail: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(userWithHash.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.generateAuthResponse(userWithHash)
}

func (s *Service) GetUserProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.GetUserProfile: %w", err)
	}
	return user, nil
}
