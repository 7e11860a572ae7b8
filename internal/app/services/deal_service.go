package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/infrastructures"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var percentHundred = decimal.NewFromInt(100)

type DealService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	auditService *AuditService
	mailer       infrastructures.Mailer
}

func NewDealService(db *gorm.DB, validator *infrastructures.Validator, auditService *AuditService, mailer infrastructures.Mailer) *DealService {
	return &DealService{
		db:           db,
		validator:    validator,
		auditService: auditService,
		mailer:       mailer,
	}
}

// CreateDeal publishes a new deal in PENDING_APPROVAL. The merchant must
// be APPROVED and the venue must belong to it.
func (s *DealService) CreateDeal(merchant *models.Merchant, actor *models.User, req *models.DealCreateRequest) (*models.Deal, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if merchant.Status != models.MerchantStatusApproved {
		return nil, errors.NewForbiddenError("Merchant must be approved before publishing deals")
	}

	if !req.PercentOff.IsPositive() || req.PercentOff.GreaterThan(percentHundred) {
		return nil, errors.NewValidationError("percent_off must be greater than 0 and at most 100")
	}
	if req.EndAt != nil && !req.StartAt.Before(*req.EndAt) {
		return nil, errors.NewValidationError("start_at must be before end_at")
	}
	if req.MinSpend != nil && req.MinSpend.IsNegative() {
		return nil, errors.NewValidationError("min_spend must not be negative")
	}

	venueUUID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid venue ID format")
	}

	var venue models.Venue
	if err := s.db.Where("id = ?", venueUUID).First(&venue).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Venue not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get venue")
	}
	if venue.MerchantID != merchant.ID {
		return nil, errors.NewForbiddenError("Venue does not belong to this merchant")
	}

	dealType := req.Type
	if dealType == "" {
		dealType = models.DealTypeStandard
	}

	deal := &models.Deal{
		ID:             uuid.New(),
		VenueID:        venue.ID,
		MerchantID:     merchant.ID,
		Title:          req.Title,
		Description:    req.Description,
		PercentOff:     req.PercentOff,
		MinSpend:       req.MinSpend,
		Type:           dealType,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		MaxRedemptions: req.MaxRedemptions,
		Status:         models.DealStatusPendingApproval,
		Tags:           req.Tags,
	}

	if err := s.db.Create(deal).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create deal")
	}

	s.auditService.Record("deals", deal.ID, models.AuditActionCreate, nil, deal, &actor.ID)
	return deal, nil
}

func (s *DealService) GetDeal(dealId string) (*models.Deal, error) {
	dealUUID, err := uuid.Parse(dealId)
	if err != nil {
		return nil, errors.NewValidationError("Invalid deal ID format")
	}

	var deal models.Deal
	err = s.db.Where("id = ?", dealUUID).First(&deal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Deal not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get deal")
	}

	deal.Status = deal.EffectiveStatus(time.Now())
	return &deal, nil
}

func (s *DealService) GetDeals(pagination *models.PaginationRequest, status *models.DealStatus, tag string) (*models.Pagination[[]models.Deal], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	filter := func(q *gorm.DB) *gorm.DB {
		if status != nil {
			q = q.Where("status = ?", *status)
		}
		if tag != "" {
			// Tags are stored as a JSON array of strings.
			q = q.Where("tags LIKE ?", fmt.Sprintf(`%%"%s"%%`, tag))
		}
		return q
	}

	var totalItems int64
	if err := filter(s.db.Model(&models.Deal{})).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count deals")
	}

	var deals []models.Deal
	query := filter(s.db.Order("created_at DESC").Limit(pagination.Limit))
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&deals).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get deals")
	}

	now := time.Now()
	for i := range deals {
		deals[i].Status = deals[i].EffectiveStatus(now)
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Deal]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      deals,
	}, nil
}

// ApproveDeal transitions PENDING_APPROVAL -> LIVE. Admin-only; the route
// middleware enforces the role.
func (s *DealService) ApproveDeal(dealId string, actor *models.User) (*models.Deal, error) {
	deal, err := s.transition(dealId, actor, models.DealStatusPendingApproval, models.DealStatusLive, nil)
	if err != nil {
		return nil, err
	}

	if owner, mErr := s.merchantOwner(deal.MerchantID); mErr == nil {
		notifyAsync(s.mailer, owner.Email, "Your deal is live",
			fmt.Sprintf("Hi %s, your deal %q has been approved and is now live.", owner.DisplayName, deal.Title))
	}
	return deal, nil
}

// RejectDeal transitions PENDING_APPROVAL -> REJECTED with a reason.
func (s *DealService) RejectDeal(dealId string, actor *models.User, req *models.DealRejectRequest) (*models.Deal, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.transition(dealId, actor, models.DealStatusPendingApproval, models.DealStatusRejected, &req.Reason)
}

// PauseDeal transitions LIVE -> PAUSED, restricted to the owning merchant.
func (s *DealService) PauseDeal(dealId string, merchant *models.Merchant, actor *models.User) (*models.Deal, error) {
	if err := s.checkOwnership(dealId, merchant); err != nil {
		return nil, err
	}
	return s.transition(dealId, actor, models.DealStatusLive, models.DealStatusPaused, nil)
}

// ResumeDeal transitions PAUSED -> LIVE, restricted to the owning merchant.
func (s *DealService) ResumeDeal(dealId string, merchant *models.Merchant, actor *models.User) (*models.Deal, error) {
	if err := s.checkOwnership(dealId, merchant); err != nil {
		return nil, err
	}
	return s.transition(dealId, actor, models.DealStatusPaused, models.DealStatusLive, nil)
}

// ExtendDeal pushes end_at forward by add_minutes, or sets it to
// now+add_minutes when the deal had no end. No upper bound is enforced.
func (s *DealService) ExtendDeal(dealId string, merchant *models.Merchant, actor *models.User, req *models.DealExtendRequest) (*models.Deal, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	deal, err := s.GetDeal(dealId)
	if err != nil {
		return nil, err
	}
	if deal.MerchantID != merchant.ID {
		return nil, errors.NewForbiddenError("Deal does not belong to this merchant")
	}

	before := *deal
	var newEnd time.Time
	if deal.EndAt != nil {
		newEnd = deal.EndAt.Add(time.Duration(req.AddMinutes) * time.Minute)
	} else {
		newEnd = time.Now().Add(time.Duration(req.AddMinutes) * time.Minute)
	}

	if err := s.db.Model(&models.Deal{}).Where("id = ?", deal.ID).
		Update("end_at", newEnd).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to extend deal")
	}

	deal.EndAt = &newEnd
	deal.Status = deal.EffectiveStatus(time.Now())
	s.auditService.Record("deals", deal.ID, models.AuditActionUpdate, before, deal, &actor.ID)
	return deal, nil
}

func (s *DealService) checkOwnership(dealId string, merchant *models.Merchant) error {
	deal, err := s.GetDeal(dealId)
	if err != nil {
		return err
	}
	if deal.MerchantID != merchant.ID {
		return errors.NewForbiddenError("Deal does not belong to this merchant")
	}
	return nil
}

// transition performs a guarded status change. The conditional update is
// the synchronization point: of two concurrent transitions from the same
// state, exactly one sees an affected row.
func (s *DealService) transition(dealId string, actor *models.User, from, to models.DealStatus, reason *string) (*models.Deal, error) {
	deal, err := s.GetDeal(dealId)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": to}
	if reason != nil {
		updates["rejection_reason"] = *reason
	}

	res := s.db.Model(&models.Deal{}).
		Where("id = ? AND status = ?", deal.ID, from).
		Updates(updates)
	if res.Error != nil {
		return nil, errors.NewInternalServerError(res.Error, "Failed to update deal status")
	}
	if res.RowsAffected == 0 {
		return nil, errors.NewConflictError(errors.CodeInvalidState,
			fmt.Sprintf("Deal is %s, expected %s", deal.Status, from))
	}

	before := *deal
	deal.Status = to
	deal.RejectionReason = reason
	s.auditService.Record("deals", deal.ID, models.AuditActionStatusChange, before, deal, &actor.ID)
	return deal, nil
}

func (s *DealService) merchantOwner(merchantID uuid.UUID) (*models.User, error) {
	var merchant models.Merchant
	if err := s.db.Where("id = ?", merchantID).First(&merchant).Error; err != nil {
		return nil, err
	}
	var owner models.User
	if err := s.db.Where("id = ?", merchant.OwnerUserID).First(&owner).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}
