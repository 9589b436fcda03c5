package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Result is the closed set of trade outcomes. Legacy rows may still carry
// free-form spellings ("Win", "Breakeven"); ParseResult accepts those at the
// boundary so only canonical values exist past deserialization.
type Result string

const (
	ResultWin       Result = "win"
	ResultLoss      Result = "loss"
	ResultBreakEven Result = "be"
)

func ParseResult(s string) (Result, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win":
		return ResultWin, true
	case "loss":
		return ResultLoss, true
	case "be", "breakeven", "break-even", "break even":
		return ResultBreakEven, true
	}
	return "", false
}

type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasBearish Bias = "bearish"
	BiasNeutral Bias = "neutral"
)

func ParseBias(s string) (Bias, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bullish", "long", "buy":
		return BiasBullish, true
	case "bearish", "short", "sell":
		return BiasBearish, true
	case "neutral":
		return BiasNeutral, true
	}
	return "", false
}

// SortKey selects the leaderboard ordering.
type SortKey string

const (
	SortPnl     SortKey = "pnl"
	SortBalance SortKey = "balance"
	SortWinRate SortKey = "winrate"
	SortVolume  SortKey = "volume"
)

func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortBalance:
		return SortBalance
	case SortWinRate:
		return SortWinRate
	case SortVolume:
		return SortVolume
	default:
		return SortPnl
	}
}

type User struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	Email        string    `db:"email"         json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}

// Profile holds the trading-account configuration for one user. The account
// balance is the basis for percentage reconciliation of every trade.
type Profile struct {
	ID             uuid.UUID `db:"id"              json:"id"`
	UserID         uuid.UUID `db:"user_id"         json:"user_id"`
	Username       string    `db:"username"        json:"username"`
	AccountBalance float64   `db:"account_balance" json:"account_balance"`
	IsPremium      bool      `db:"is_premium"      json:"is_premium"`
	ReferralCode   string    `db:"referral_code"   json:"referral_code"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}

const DefaultAccountBalance = 1000.0

// Trade is one logged trading decision. PnlMoney is canonical; percentage and
// pips are derived or user-supplied and may be absent on historical rows.
type Trade struct {
	ID            uuid.UUID `db:"id"             json:"id"`
	UserID        uuid.UUID `db:"user_id"        json:"user_id"`
	Title         string    `db:"title"          json:"title"`
	Pair          string    `db:"pair"           json:"pair"`
	Timeframe     string    `db:"timeframe"      json:"timeframe"`
	Session       string    `db:"session"        json:"session"`
	Bias          Bias      `db:"bias"           json:"bias"`
	Result        Result    `db:"result"         json:"result"`
	RiskReward    string    `db:"risk_reward"    json:"risk_reward"`
	PnlPercentage *float64  `db:"pnl_percentage" json:"pnl_percentage,omitempty"`
	PnlPips       *float64  `db:"pnl_pips"       json:"pnl_pips,omitempty"`
	PnlMoney      *float64  `db:"pnl_money"      json:"pnl_money,omitempty"`
	Description   string    `db:"description"    json:"description"`
	Confluences   string    `db:"confluences"    json:"confluences"`
	Feeling       int       `db:"feeling"        json:"feeling"`
	ScreenshotURL string    `db:"screenshot_url" json:"screenshot_url"`
	IsPublic      bool      `db:"is_public"      json:"is_public"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

// UserStats is a derived rollup over a user's full trade set. It is a cache:
// always recomputed whole and upserted whole, never incrementally patched.
type UserStats struct {
	UserID             uuid.UUID `db:"user_id"              json:"user_id"`
	TotalTrades        int       `db:"total_trades"         json:"total_trades"`
	Wins               int       `db:"wins"                 json:"wins"`
	Losses             int       `db:"losses"               json:"losses"`
	Breakevens         int       `db:"breakevens"           json:"breakevens"`
	WinRate            int       `db:"win_rate"             json:"win_rate"`
	TotalPnlPercentage float64   `db:"total_pnl_percentage" json:"total_pnl_percentage"`
	TotalPnlPips       float64   `db:"total_pnl_pips"       json:"total_pnl_pips"`
	TotalPnlMoney      float64   `db:"total_pnl_money"      json:"total_pnl_money"`
	CurrentBalance     float64   `db:"current_balance"      json:"current_balance"`
	UpdatedAt          time.Time `db:"updated_at"           json:"updated_at"`
}

// LeaderboardEntry joins Profile and UserStats. The rank fields are assigned
// at query time and never stored.
type LeaderboardEntry struct {
	UserID             uuid.UUID `db:"user_id"              json:"user_id"`
	Username           string    `db:"username"             json:"username"`
	IsPremium          bool      `db:"is_premium"           json:"is_premium"`
	TotalTrades        int       `db:"total_trades"         json:"total_trades"`
	WinRate            int       `db:"win_rate"             json:"win_rate"`
	TotalPnlPercentage float64   `db:"total_pnl_percentage" json:"total_pnl_percentage"`
	CurrentBalance     float64   `db:"current_balance"      json:"current_balance"`
	PnlRank            int       `db:"-"                    json:"pnl_rank"`
	BalanceRank        int       `db:"-"                    json:"balance_rank"`
	WinRateRank        int       `db:"-"                    json:"winrate_rank"`
	VolumeRank         int       `db:"-"                    json:"volume_rank"`
}
