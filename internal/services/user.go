package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/repos"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (*types.User, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error)
	ListUsers(ctx context.Context) ([]*types.User, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load user: %w", err)
	}
	return user, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (*types.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("A name is required")
	}
	if err := us.userRepo.UpdateFields(ctx, nil, userID, map[string]interface{}{
		"name": name,
	}); err != nil {
		return nil, fmt.Errorf("Failed to update user: %w", err)
	}
	return us.GetProfile(ctx, userID)
}

func (us *userService) UploadAvatar(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error) {
	var updated *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, uErr := us.userRepo.GetByID(ctx, tx, userID)
		if uErr != nil {
			return fmt.Errorf("Failed to load user: %w", uErr)
		}
		if aErr := us.avatarService.CreateUserAvatarFromImage(ctx, tx, user, raw); aErr != nil {
			return fmt.Errorf("Failed to process avatar: %w", aErr)
		}
		if fErr := us.userRepo.UpdateFields(ctx, tx, userID, map[string]interface{}{
			"avatar_url": user.AvatarURL,
		}); fErr != nil {
			return fmt.Errorf("Failed to update avatar url: %w", fErr)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (us *userService) ListUsers(ctx context.Context) ([]*types.User, error) {
	users, err := us.userRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Failed to list users: %w", err)
	}
	return users, nil
}
