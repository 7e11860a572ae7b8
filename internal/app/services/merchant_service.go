package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/infrastructures"
	"gorm.io/gorm"
)

type MerchantService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	auditService *AuditService
	mailer       infrastructures.Mailer
}

func NewMerchantService(db *gorm.DB, validator *infrastructures.Validator, auditService *AuditService, mailer infrastructures.Mailer) *MerchantService {
	return &MerchantService{
		db:           db,
		validator:    validator,
		auditService: auditService,
		mailer:       mailer,
	}
}

// Register creates a PENDING merchant account for the user and upgrades
// their role. One merchant per user.
func (s *MerchantService) Register(user *models.User, req *models.MerchantRegisterRequest) (*models.Merchant, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var existing models.Merchant
	if err := s.db.Where("owner_user_id = ?", user.ID).First(&existing).Error; err == nil {
		return nil, errors.NewConflictError(errors.CodeInvalidState, "User already has a merchant account")
	}

	merchant := &models.Merchant{
		ID:          uuid.New(),
		OwnerUserID: user.ID,
		Name:        req.Name,
		Status:      models.MerchantStatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(merchant).Error; err != nil {
			return err
		}
		// Admins keep their role; plain users become merchants.
		if user.Role == models.UserRoleUser {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
				Update("role", models.UserRoleMerchant).Error; err != nil {
				return err
			}
			user.Role = models.UserRoleMerchant
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to register merchant")
	}

	s.auditService.Record("merchants", merchant.ID, models.AuditActionCreate, nil, merchant, &user.ID)
	return merchant, nil
}

func (s *MerchantService) GetMerchant(merchantId string) (*models.Merchant, error) {
	merchantUUID, err := uuid.Parse(merchantId)
	if err != nil {
		return nil, errors.NewValidationError("Invalid merchant ID format")
	}

	var merchant models.Merchant
	err = s.db.Where("id = ?", merchantUUID).First(&merchant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Merchant not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get merchant")
	}

	return &merchant, nil
}

// GetByOwner returns the merchant account owned by the given user.
func (s *MerchantService) GetByOwner(userID uuid.UUID) (*models.Merchant, error) {
	var merchant models.Merchant
	err := s.db.Where("owner_user_id = ?", userID).First(&merchant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewForbiddenError("User has no merchant account")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get merchant")
	}
	return &merchant, nil
}

// Approve transitions PENDING -> APPROVED. The conditional update keeps
// the transition race-free: only one of two concurrent decisions wins.
func (s *MerchantService) Approve(merchantId string, actor *models.User) (*models.Merchant, error) {
	return s.decide(merchantId, actor, models.MerchantStatusApproved, nil)
}

func (s *MerchantService) Reject(merchantId string, actor *models.User, req *models.MerchantRejectRequest) (*models.Merchant, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.decide(merchantId, actor, models.MerchantStatusRejected, &req.Reason)
}

func (s *MerchantService) decide(merchantId string, actor *models.User, to models.MerchantStatus, reason *string) (*models.Merchant, error) {
	merchant, err := s.GetMerchant(merchantId)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": to}
	if reason != nil {
		updates["rejection_reason"] = *reason
	}

	res := s.db.Model(&models.Merchant{}).
		Where("id = ? AND status = ?", merchant.ID, models.MerchantStatusPending).
		Updates(updates)
	if res.Error != nil {
		return nil, errors.NewInternalServerError(res.Error, "Failed to update merchant")
	}
	if res.RowsAffected == 0 {
		return nil, errors.NewConflictError(errors.CodeInvalidState,
			fmt.Sprintf("Merchant is %s, only PENDING merchants can be decided", merchant.Status))
	}

	before := *merchant
	merchant.Status = to
	merchant.RejectionReason = reason
	s.auditService.Record("merchants", merchant.ID, models.AuditActionStatusChange, before, merchant, &actor.ID)

	if owner, err := s.ownerOf(merchant); err == nil {
		if to == models.MerchantStatusApproved {
			notifyAsync(s.mailer, owner.Email, "Your Happy Hour merchant account is approved",
				fmt.Sprintf("Hi %s, %s is now approved. You can start publishing deals.", owner.DisplayName, merchant.Name))
		} else {
			notifyAsync(s.mailer, owner.Email, "Your Happy Hour merchant application was rejected",
				fmt.Sprintf("Hi %s, %s was not approved: %s", owner.DisplayName, merchant.Name, *reason))
		}
	}

	return merchant, nil
}

func (s *MerchantService) ownerOf(merchant *models.Merchant) (*models.User, error) {
	var owner models.User
	if err := s.db.Where("id = ?", merchant.OwnerUserID).First(&owner).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}
