package usecase

import (
	"context"
	"time"

	"naafe/internal/domain/entity"
	"naafe/internal/domain/repository"
	"naafe/internal/infrastructure/firebase"
	"naafe/pkg/errors"
)

type UserUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth *firebase.FirebaseAuthClient
}

func NewUserUseCase(userRepo repository.UserRepository, firebaseAuth *firebase.FirebaseAuthClient) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type UpdateProfileInput struct {
	Username  string   `json:"username" validate:"omitempty,min=3,max=40"`
	Phone     string   `json:"phone" validate:"omitempty,max=20"`
	AvatarURL string   `json:"avatar_url" validate:"omitempty,url"`
	Roles     []string `json:"roles" validate:"omitempty,dive,oneof=seeker provider"`
}

// GetOrBootstrap returns the profile for an authenticated UID, creating a
// minimal one on first sight so a fresh Firebase account can use the API
// immediately.
func (uc *UserUseCase) GetOrBootstrap(ctx context.Context, uid string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	email := ""
	if uc.firebaseAuth != nil {
		email, _ = uc.firebaseAuth.GetUserEmail(ctx, uid)
	}

	user = &entity.User{
		ID:    uid,
		Email: email,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	if len(input.Roles) > 0 {
		user.Roles = input.Roles
	}

	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// TouchLastSeen stamps the user's last activity. Called on socket
// disconnect so "last seen" reflects the end of the session.
func (uc *UserUseCase) TouchLastSeen(ctx context.Context, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.LastSeen = time.Now()

	return uc.userRepo.Update(ctx, user)
}
