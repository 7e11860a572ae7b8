package services

import (
	"github.com/google/uuid"
	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ResolveFromPrincipal looks up the local user record for an
// externally-authenticated principal, provisioning it on first sight.
func (s *UserService) ResolveFromPrincipal(principal *models.Principal) (*models.User, error) {
	var user models.User
	err := s.db.Where("connect_id = ?", principal.ID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.NewInternalServerError(err, "Failed to get user")
	}

	user = models.User{
		ID:          uuid.New(),
		ConnectID:   principal.ID,
		Email:       principal.Email,
		DisplayName: principal.Name,
		Role:        models.UserRoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to provision user")
	}
	return &user, nil
}

func (s *UserService) GetUser(userId string) (*models.User, error) {
	userUUID, err := uuid.Parse(userId)
	if err != nil {
		return nil, errors.NewValidationError("Invalid user ID format")
	}

	var user models.User
	err = s.db.Where("id = ?", userUUID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("User not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get user")
	}

	return &user, nil
}
