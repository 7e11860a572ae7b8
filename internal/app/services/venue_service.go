package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type VenueService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	geocoder     infrastructures.Geocoder
	auditService *AuditService
}

func NewVenueService(db *gorm.DB, validator *infrastructures.Validator, geocoder infrastructures.Geocoder, auditService *AuditService) *VenueService {
	return &VenueService{
		db:           db,
		validator:    validator,
		geocoder:     geocoder,
		auditService: auditService,
	}
}

// CreateVenue registers a venue under the merchant. Geocoding runs in the
// background; the venue is usable immediately with zero coordinates.
func (s *VenueService) CreateVenue(merchant *models.Merchant, actor *models.User, req *models.VenueCreateRequest) (*models.Venue, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	venue := &models.Venue{
		ID:         uuid.New(),
		MerchantID: merchant.ID,
		Name:       req.Name,
		Address:    req.Address,
	}

	if err := s.db.Create(venue).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create venue")
	}

	s.auditService.Record("venues", venue.ID, models.AuditActionCreate, nil, venue, &actor.ID)
	s.geocodeAsync(venue.ID, venue.Address)

	return venue, nil
}

func (s *VenueService) geocodeAsync(venueID uuid.UUID, address string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		lat, lng, err := s.geocoder.Geocode(ctx, address)
		if err != nil {
			logrus.Errorf("geocoding failed for venue %s: %v", venueID, err)
			return
		}
		if lat == 0 && lng == 0 {
			return
		}
		if err := s.db.Model(&models.Venue{}).Where("id = ?", venueID).
			Updates(map[string]interface{}{"lat": lat, "lng": lng}).Error; err != nil {
			logrus.Errorf("failed to store coordinates for venue %s: %v", venueID, err)
		}
	}()
}

func (s *VenueService) GetVenue(venueId string) (*models.Venue, error) {
	venueUUID, err := uuid.Parse(venueId)
	if err != nil {
		return nil, errors.NewValidationError("Invalid venue ID format")
	}

	var venue models.Venue
	err = s.db.Where("id = ?", venueUUID).First(&venue).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Venue not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get venue")
	}

	return &venue, nil
}

func (s *VenueService) ListByMerchant(merchantID uuid.UUID) ([]models.Venue, error) {
	var venues []models.Venue
	err := s.db.Where("merchant_id = ?", merchantID).Order("created_at DESC").Find(&venues).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to list venues")
	}
	return venues, nil
}
