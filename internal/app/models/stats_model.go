package models

import "github.com/shopspring/decimal"

// PlatformStats is the admin-facing rollup across all entities.
type PlatformStats struct {
	Users          int64   `json:"users"`
	Merchants      int64   `json:"merchants"`
	Venues         int64   `json:"venues"`
	Deals          int64   `json:"deals"`
	Vouchers       int64   `json:"vouchers"`
	Redeemed       int64   `json:"redeemed"`
	RedemptionRate float64 `json:"redemption_rate"`
}

// MerchantStats is scoped to one merchant's venues and deals.
type MerchantStats struct {
	Venues         int64   `json:"venues"`
	Deals          int64   `json:"deals"`
	LiveDeals      int64   `json:"live_deals"`
	Vouchers       int64   `json:"vouchers"`
	Redeemed       int64   `json:"redeemed"`
	RedemptionRate float64 `json:"redemption_rate"`
}

// UserStats carries a consumer's claim history plus derived scores.
// Savings, points, streak and badges are presentation heuristics, not
// business facts: they are non-negative and grow with redemption count,
// and nothing more is guaranteed about them.
type UserStats struct {
	Claimed  int64           `json:"claimed"`
	Redeemed int64           `json:"redeemed"`
	Savings  decimal.Decimal `json:"savings"`
	Points   int64           `json:"points"`
	Streak   int             `json:"streak"`
	Badges   []string        `json:"badges"`
}
