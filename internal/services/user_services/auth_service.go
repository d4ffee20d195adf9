// File: internal/services/user_services/auth_service.go
package user_services

import (
    "context"
    "errors"
    "fmt"
    "regexp"

    "golang.org/x/crypto/bcrypt"

    "github.com/cswiz2003/voice-ai-assistant/internal/auth"
    "github.com/cswiz2003/voice-ai-assistant/internal/domain"
    "github.com/cswiz2003/voice-ai-assistant/internal/repository/user"
)

type AuthService struct {
    userRepo     user.UserRepository
    jwtSecretKey string
    logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) *AuthService {
    return &AuthService{
        userRepo:     userRepo,
        jwtSecretKey: jwtSecretKey,
        logger:       logger,
    }
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
    if username == "" || password == "" {
        s.logger.Warn("login attempt with empty credentials",
            "has_username", username != "",
            "has_password", password != "")
        return nil, "", errors.New("username and password are required")
    }

    s.logger.Info("user login attempt",
        "username", username[:min(4, len(username))]+"****")

    account, err := s.userRepo.FindByUsername(ctx, username)
    if err != nil {
        s.logger.Warn("login failed - user not found",
            "username", username[:min(4, len(username))]+"****")
        return nil, "", errors.New("invalid credentials")
    }

    // Verify password
    if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
        s.logger.Warn("login failed - invalid password",
            "username", username[:min(4, len(username))]+"****",
            "user_id", account.ID)
        return nil, "", errors.New("invalid credentials")
    }

    token, err := auth.GenerateJWT(account.ID, []byte(s.jwtSecretKey))
    if err != nil {
        s.logger.Error("JWT token generation failed",
            "error", err,
            "user_id", account.ID)
        return nil, "", fmt.Errorf("failed to generate token: %w", err)
    }

    s.logger.Info("login successful",
        "username", username[:min(4, len(username))]+"****",
        "user_id", account.ID)

    return account, token, nil
}

// Register creates a new account and returns it.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
    if err := s.validateRegistrationInput(username, password); err != nil {
        s.logger.Warn("registration validation failed",
            "username", username[:min(4, len(username))]+"****",
            "error", err.Error())
        return nil, fmt.Errorf("validation failed: %w", err)
    }

    s.logger.Info("user registration attempt",
        "username", username[:min(4, len(username))]+"****")

    existingUser, err := s.userRepo.FindByUsername(ctx, username)
    if err == nil && existingUser != nil {
        s.logger.Warn("registration failed - username already exists",
            "username", username[:min(4, len(username))]+"****",
            "existing_user_id", existingUser.ID)
        return nil, errors.New("username already taken")
    }

    hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
    if err != nil {
        s.logger.Error("password hashing failed",
            "error", err,
            "username", username[:min(4, len(username))]+"****")
        return nil, fmt.Errorf("failed to hash password: %w", err)
    }

    account := &domain.User{
        Username: username,
        Password: string(hashedPassword),
    }

    createdUser, err := s.userRepo.Create(ctx, account)
    if err != nil {
        s.logger.Error("user creation failed",
            "error", err,
            "username", username[:min(4, len(username))]+"****")
        return nil, fmt.Errorf("failed to create user: %w", err)
    }

    s.logger.Info("user registered successfully",
        "username", username[:min(4, len(username))]+"****",
        "user_id", createdUser.ID)

    return createdUser, nil
}

func (s *AuthService) validateRegistrationInput(username, password string) error {
    usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
    if !usernameRegex.MatchString(username) {
        return fmt.Errorf("username validation: username must be 3-20 characters, alphanumeric or underscore")
    }

    if len(password) < 8 {
        return fmt.Errorf("password validation: password must be at least 8 characters")
    }

    return nil
}

// ValidateJWTToken validates a JWT token and returns the user ID
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
    if tokenString == "" {
        s.logger.Warn("JWT validation attempted with empty token")
        return 0, errors.New("empty token")
    }

    userID, err := auth.ValidateToken(tokenString, []byte(s.jwtSecretKey))
    if err != nil {
        s.logger.Warn("JWT token validation failed", "error", err)
        return 0, fmt.Errorf("invalid token: %w", err)
    }

    s.logger.Debug("JWT token validated successfully", "user_id", userID)
    return userID, nil
}
