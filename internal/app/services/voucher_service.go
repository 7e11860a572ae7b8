package services

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/app/pkg"
	"github.com/happyhourhq/happyhour-core/internal/infrastructures"
	"github.com/happyhourhq/happyhour-core/pkg/scancode"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// Voucher lifetime from issuance, by deal type.
	instantVoucherTTL  = 2 * time.Hour
	standardVoucherTTL = 4 * time.Hour

	// Attempts to allocate a unique code before giving up. With a 16.7M
	// code space a second collision in a row is already vanishingly rare.
	maxCodeAttempts = 5

	// Transient database failures on the claim/redeem transactions are
	// retried with exponential backoff; all other reads are re-issuable
	// by the client.
	maxTxRetries = 3
)

type VoucherService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	auditService *AuditService

	// generateCode is swappable so collision handling is testable.
	generateCode func() (string, error)
}

func NewVoucherService(db *gorm.DB, validator *infrastructures.Validator, auditService *AuditService) *VoucherService {
	return &VoucherService{
		db:           db,
		validator:    validator,
		auditService: auditService,
		generateCode: pkg.GenerateVoucherCode,
	}
}

// Claim issues a voucher against a live deal. The capacity check and the
// counter increment are one conditional update inside the same
// transaction as the voucher insert, so concurrent claims can never
// oversell a capped deal.
func (s *VoucherService) Claim(user *models.User, req *models.VoucherClaimRequest) (*models.Voucher, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	dealUUID, err := uuid.Parse(req.DealID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid deal ID format")
	}

	var voucher *models.Voucher
	op := func() error {
		voucher = nil
		return s.db.Transaction(func(tx *gorm.DB) error {
			now := time.Now()

			res := tx.Model(&models.Deal{}).
				Where("id = ? AND status = ? AND start_at <= ? AND (end_at IS NULL OR end_at > ?)"+
					" AND (max_redemptions IS NULL OR redeemed_count < max_redemptions)",
					dealUUID, models.DealStatusLive, now, now).
				UpdateColumn("redeemed_count", gorm.Expr("redeemed_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return backoff.Permanent(s.claimFailureReason(tx, dealUUID, now))
			}

			var deal models.Deal
			if err := tx.Where("id = ?", dealUUID).First(&deal).Error; err != nil {
				return err
			}

			ttl := standardVoucherTTL
			if deal.Type == models.DealTypeInstant {
				ttl = instantVoucherTTL
			}

			// Insert with ON CONFLICT DO NOTHING: a code collision shows up
			// as zero affected rows instead of aborting the transaction,
			// so we can retry with a fresh code in place.
			for attempt := 0; attempt < maxCodeAttempts; attempt++ {
				code, err := s.generateCode()
				if err != nil {
					return err
				}

				v := &models.Voucher{
					ID:        uuid.New(),
					Code:      code,
					UserID:    user.ID,
					DealID:    deal.ID,
					Status:    models.VoucherStatusIssued,
					ExpiresAt: now.Add(ttl),
				}
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(v)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					continue
				}
				voucher = v
				return nil
			}
			return backoff.Permanent(errors.NewInternalServerError(
				fmt.Errorf("%d consecutive voucher code collisions", maxCodeAttempts),
				"Failed to allocate a unique voucher code"))
		})
	}

	if err := retryTx(op); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.NewInternalServerError(err, "Failed to claim deal")
	}

	s.auditService.Record("vouchers", voucher.ID, models.AuditActionCreate, nil, voucher, &user.ID)
	return voucher, nil
}

// claimFailureReason maps a zero-row claim update to the client-facing
// error. The deal is re-read outside the winning path only.
func (s *VoucherService) claimFailureReason(tx *gorm.DB, dealID uuid.UUID, now time.Time) error {
	var deal models.Deal
	if err := tx.Where("id = ?", dealID).First(&deal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("Deal not found")
		}
		return err
	}

	switch {
	case deal.EffectiveStatus(now) != models.DealStatusLive:
		return errors.NewConflictError(errors.CodeDealNotEligible, "Deal is not live")
	case now.Before(deal.StartAt):
		return errors.NewConflictError(errors.CodeDealNotEligible, "Deal has not started yet")
	case deal.EndAt != nil && !now.Before(*deal.EndAt):
		return errors.NewConflictError(errors.CodeDealNotEligible, "Deal has ended")
	default:
		return errors.NewConflictError(errors.CodeDealNotEligible, "Deal is sold out")
	}
}

// Redeem marks a voucher used. Accepts either the structured scan payload
// or a bare code. The conditional update guarantees exactly one winner
// under concurrent double-scans.
func (s *VoucherService) Redeem(req *models.VoucherRedeemRequest) (*models.VoucherRedeemResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	raw := req.Payload
	if raw == "" {
		raw = req.Code
	}
	code, err := scancode.ExtractCode(raw)
	if err != nil {
		return nil, errors.NewValidationError("A voucher code or scan payload is required")
	}

	var redeemedAt time.Time
	var redeemed *models.Voucher
	op := func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			now := time.Now()

			res := tx.Model(&models.Voucher{}).
				Where("code = ? AND status = ? AND expires_at > ?", code, models.VoucherStatusIssued, now).
				Updates(map[string]interface{}{
					"status":      models.VoucherStatusRedeemed,
					"redeemed_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return backoff.Permanent(s.redeemFailureReason(tx, code, now))
			}

			var v models.Voucher
			if err := tx.Where("code = ?", code).First(&v).Error; err != nil {
				return err
			}
			redeemed = &v
			redeemedAt = now
			return nil
		})
	}

	if err := retryTx(op); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.NewInternalServerError(err, "Failed to redeem voucher")
	}

	s.auditService.Record("vouchers", redeemed.ID, models.AuditActionStatusChange,
		map[string]interface{}{"status": models.VoucherStatusIssued},
		map[string]interface{}{"status": models.VoucherStatusRedeemed, "redeemed_at": redeemedAt},
		&redeemed.UserID)

	return &models.VoucherRedeemResponse{RedeemedAt: redeemedAt}, nil
}

// redeemFailureReason maps a zero-row redeem update to the client-facing
// error. A redeemed voucher past its expiry still reports ALREADY_REDEEMED:
// the double-scan case is the one clients must distinguish.
func (s *VoucherService) redeemFailureReason(tx *gorm.DB, code string, now time.Time) error {
	var voucher models.Voucher
	if err := tx.Where("code = ?", code).First(&voucher).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("Voucher code not found")
		}
		return err
	}

	switch {
	case voucher.Status == models.VoucherStatusRedeemed:
		return errors.NewConflictError(errors.CodeAlreadyRedeemed, "Voucher has already been redeemed")
	case voucher.Status == models.VoucherStatusCancelled:
		return errors.NewConflictError(errors.CodeVoucherCancelled, "Voucher has been cancelled")
	default:
		return errors.NewGoneError(errors.CodeVoucherExpired, "Voucher has expired")
	}
}

// ScanPayload renders the machine-scannable payload for a voucher owned
// by the requesting user.
func (s *VoucherService) ScanPayload(user *models.User, code string) (map[string]interface{}, error) {
	voucher, err := s.GetVoucherByCode(code)
	if err != nil {
		return nil, err
	}
	if voucher.UserID != user.ID && !user.IsAdmin() {
		return nil, errors.NewForbiddenError("Voucher does not belong to this user")
	}

	payload, err := scancode.Encode(voucher.Code)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to encode scan payload")
	}

	return map[string]interface{}{
		"payload":    payload,
		"code":       voucher.Code,
		"expires_at": voucher.ExpiresAt,
	}, nil
}

func (s *VoucherService) GetVoucherByCode(code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := s.db.Where("code = ?", code).First(&voucher).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Voucher not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get voucher")
	}

	voucher.Status = voucher.EffectiveStatus(time.Now())
	return &voucher, nil
}

// ListUserVouchers returns the user's vouchers, newest first, with the
// expiry view applied.
func (s *VoucherService) ListUserVouchers(user *models.User, pagination *models.PaginationRequest) (*models.Pagination[[]models.Voucher], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	var totalItems int64
	if err := s.db.Model(&models.Voucher{}).Where("user_id = ?", user.ID).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count vouchers")
	}

	var vouchers []models.Voucher
	query := s.db.Where("user_id = ?", user.ID).Order("created_at DESC").Limit(pagination.Limit)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&vouchers).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get vouchers")
	}

	now := time.Now()
	for i := range vouchers {
		vouchers[i].Status = vouchers[i].EffectiveStatus(now)
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Voucher]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      vouchers,
	}, nil
}

// retryTx runs op with bounded exponential backoff. AppErrors are wrapped
// as permanent inside op so only transient infrastructure failures retry.
func retryTx(op func() error) error {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(50*time.Millisecond),
		backoff.WithMaxInterval(500*time.Millisecond),
	), maxTxRetries)
	return backoff.Retry(op, b)
}
