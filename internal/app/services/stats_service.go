package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	platformStatsCacheKey = "happyhour:stats:platform"
	platformStatsCacheTTL = 60 * time.Second
	pointsPerRedemption   = 10
)

// StatsService computes read-only rollups. It never mutates any row.
// The derived user scores (savings, points, streak, badges) are
// presentation heuristics, not business facts.
type StatsService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewStatsService(db *gorm.DB, redisClient *redis.Client) *StatsService {
	return &StatsService{db: db, redis: redisClient}
}

// PlatformStats returns platform-wide counts, served from a short-TTL
// redis cache when possible. Cache failures fall through to the database.
func (s *StatsService) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	if cached, err := s.redis.Get(ctx, platformStatsCacheKey).Result(); err == nil {
		var stats models.PlatformStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	} else if err != redis.Nil {
		logrus.Warnf("platform stats cache read failed: %v", err)
	}

	stats := &models.PlatformStats{}
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &stats.Users},
		{&models.Merchant{}, &stats.Merchants},
		{&models.Venue{}, &stats.Venues},
		{&models.Deal{}, &stats.Deals},
		{&models.Voucher{}, &stats.Vouchers},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to compute platform stats")
		}
	}

	if err := s.db.Model(&models.Voucher{}).
		Where("status = ?", models.VoucherStatusRedeemed).
		Count(&stats.Redeemed).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to compute platform stats")
	}
	if stats.Vouchers > 0 {
		stats.RedemptionRate = float64(stats.Redeemed) / float64(stats.Vouchers)
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.redis.Set(ctx, platformStatsCacheKey, payload, platformStatsCacheTTL).Err(); err != nil {
			logrus.Warnf("platform stats cache write failed: %v", err)
		}
	}

	return stats, nil
}

// MerchantStats returns rollups scoped to one merchant's venues and deals.
func (s *StatsService) MerchantStats(merchant *models.Merchant) (*models.MerchantStats, error) {
	stats := &models.MerchantStats{}

	if err := s.db.Model(&models.Venue{}).Where("merchant_id = ?", merchant.ID).
		Count(&stats.Venues).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to compute merchant stats")
	}
	if err := s.db.Model(&models.Deal{}).Where("merchant_id = ?", merchant.ID).
		Count(&stats.Deals).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to compute merchant stats")
	}
	if err := s.db.Model(&models.Deal{}).
		Where("merchant_id = ? AND status = ?", merchant.ID, models.DealStatusLive).
		Count(&stats.LiveDeals).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to compute merchant stats")
	}

	if err := s.db.Model(&models.Voucher{}).
		Joins("JOIN deals ON deals.id = vouchers.deal_id").
		Where("deals.merchant_id = ?", merchant.ID).
		Count(&stats.Vouchers).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to compute merchant stats")
	}
	if err := s.db.Model(&models.Voucher{}).
		Joins("JOIN deals ON deals.id = vouchers.deal_id").
		Where("deals.merchant_id = ? AND vouchers.status = ?", merchant.ID, models.VoucherStatusRedeemed).
		Count(&stats.Redeemed).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to compute merchant stats")
	}
	if stats.Vouchers > 0 {
		stats.RedemptionRate = float64(stats.Redeemed) / float64(stats.Vouchers)
	}

	return stats, nil
}

type redeemedRow struct {
	RedeemedAt time.Time
	PercentOff decimal.Decimal
	MinSpend   *decimal.Decimal
}

// UserStats returns a consumer's claim history and derived scores.
func (s *StatsService) UserStats(user *models.User) (*models.UserStats, error) {
	stats := &models.UserStats{Savings: decimal.Zero, Badges: []string{}}

	if err := s.db.Model(&models.Voucher{}).Where("user_id = ?", user.ID).
		Count(&stats.Claimed).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to compute user stats")
	}

	var rows []redeemedRow
	if err := s.db.Model(&models.Voucher{}).
		Select("vouchers.redeemed_at, deals.percent_off, deals.min_spend").
		Joins("JOIN deals ON deals.id = vouchers.deal_id").
		Where("vouchers.user_id = ? AND vouchers.status = ?", user.ID, models.VoucherStatusRedeemed).
		Scan(&rows).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to compute user stats")
	}

	stats.Redeemed = int64(len(rows))
	stats.Points = stats.Redeemed * pointsPerRedemption
	stats.Savings = estimatedSavings(rows)
	stats.Streak = redemptionStreak(rows, time.Now())
	stats.Badges = badgesFor(stats.Redeemed)

	return stats, nil
}

// estimatedSavings sums percent_off applied to the deal's min_spend when
// one is set. It is a display figure only: without the actual bill we
// cannot know what the discount was worth.
func estimatedSavings(rows []redeemedRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		if r.MinSpend != nil {
			total = total.Add(r.MinSpend.Mul(r.PercentOff).Div(percentHundred))
		} else {
			total = total.Add(r.PercentOff)
		}
	}
	return total
}

// redemptionStreak counts consecutive calendar days with at least one
// redemption, ending today or yesterday.
func redemptionStreak(rows []redeemedRow, now time.Time) int {
	if len(rows) == 0 {
		return 0
	}

	days := make(map[string]bool, len(rows))
	for _, r := range rows {
		days[r.RedeemedAt.Format("2006-01-02")] = true
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	if keys[0] != today && keys[0] != yesterday {
		return 0
	}

	streak := 1
	cursor, _ := time.Parse("2006-01-02", keys[0])
	for _, k := range keys[1:] {
		cursor = cursor.AddDate(0, 0, -1)
		if k != cursor.Format("2006-01-02") {
			break
		}
		streak++
	}
	return streak
}

func badgesFor(redeemed int64) []string {
	badges := []string{}
	if redeemed >= 1 {
		badges = append(badges, "first-sip")
	}
	if redeemed >= 10 {
		badges = append(badges, "regular")
	}
	if redeemed >= 50 {
		badges = append(badges, "happy-hour-hero")
	}
	return badges
}
