package services

import (
	"time"

	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/infrastructures"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SweeperService periodically transitions deals and vouchers whose window
// has closed into the stored EXPIRED status. Correctness of claim and
// redeem never depends on the sweep: their conditional updates check the
// clock directly.
type SweeperService struct {
	db   *gorm.DB
	cron *cron.Cron
}

func NewSweeperService(db *gorm.DB) *SweeperService {
	return &SweeperService{
		db:   db,
		cron: cron.New(),
	}
}

// Start schedules the sweep on the configured cron expression.
func (s *SweeperService) Start() error {
	spec := infrastructures.Config.EXPIRY_SWEEP_CRON
	if _, err := s.cron.AddFunc(spec, s.SweepOnce); err != nil {
		return err
	}
	s.cron.Start()
	logrus.Infof("expiry sweeper scheduled: %s", spec)
	return nil
}

func (s *SweeperService) Stop() {
	s.cron.Stop()
}

// SweepOnce runs one pass over deals and vouchers. Exported so tests and
// operational tooling can trigger a sweep directly.
func (s *SweeperService) SweepOnce() {
	now := time.Now()

	res := s.db.Model(&models.Deal{}).
		Where("status = ? AND end_at IS NOT NULL AND end_at <= ?", models.DealStatusLive, now).
		Update("status", models.DealStatusExpired)
	if res.Error != nil {
		logrus.Errorf("deal expiry sweep failed: %v", res.Error)
	} else if res.RowsAffected > 0 {
		logrus.Infof("expired %d deals", res.RowsAffected)
	}

	res = s.db.Model(&models.Voucher{}).
		Where("status = ? AND expires_at <= ?", models.VoucherStatusIssued, now).
		Update("status", models.VoucherStatusExpired)
	if res.Error != nil {
		logrus.Errorf("voucher expiry sweep failed: %v", res.Error)
	} else if res.RowsAffected > 0 {
		logrus.Infof("expired %d vouchers", res.RowsAffected)
	}
}
