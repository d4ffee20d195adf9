// File: internal/repository/user/gorm_user_repository.go
package user

import (
    "context"
    "errors"
    "log"

    "github.com/cswiz2003/voice-ai-assistant/internal/domain"
    "gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type gormUserRepository struct {
    db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
    return &gormUserRepository{db: db}
}

// Create inserts a new user record.
func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
    if user == nil {
        return nil, errors.New("user cannot be nil")
    }
    if err := user.IsValid(); err != nil {
        return nil, err
    }

    err := r.db.WithContext(ctx).Create(user).Error
    if err != nil {
        // Secure logging - no credentials exposed
        log.Printf("[UserRepository] Database error during user creation: %v", err)
        return nil, errors.New("database error creating user")
    }
    return user, nil
}

// FindByID looks up a user by primary key.
func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
    if id == 0 {
        return nil, errors.New("invalid user ID")
    }

    var user domain.User
    err := r.db.WithContext(ctx).First(&user, id).Error
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrUserNotFound
        }
        log.Printf("[UserRepository] FindByID database error: %v", err)
        return nil, errors.New("database query failed")
    }
    return &user, nil
}

// FindByUsername looks up a user by their unique username.
func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
    if username == "" {
        return nil, errors.New("invalid username")
    }

    var user domain.User
    err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrUserNotFound
        }
        log.Printf("[UserRepository] FindByUsername database error: %v", err)
        return nil, errors.New("database query failed")
    }
    return &user, nil
}

// Delete removes a user record.
func (r *gormUserRepository) Delete(ctx context.Context, userID uint) error {
    if userID == 0 {
        return errors.New("invalid user ID")
    }

    result := r.db.WithContext(ctx).Delete(&domain.User{}, userID)
    if result.Error != nil {
        log.Printf("[UserRepository] Database error deleting user ID %d: %v", userID, result.Error)
        return errors.New("database error deleting user")
    }
    if result.RowsAffected == 0 {
        return ErrUserNotFound
    }
    return nil
}
