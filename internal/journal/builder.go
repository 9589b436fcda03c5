package journal

import (
	"github.com/google/uuid"

	"github.com/yourorg/tradetrackr/internal/domain"
	"github.com/yourorg/tradetrackr/internal/pnl"
)

// TradeInput is the deserialized trade submission. P&L fields are pointers so
// "absent" is distinguishable from zero.
type TradeInput struct {
	Title         string   `json:"title"`
	Pair          string   `json:"pair"`
	Timeframe     string   `json:"timeframe"`
	Session       string   `json:"session"`
	Bias          string   `json:"bias"`
	Result        string   `json:"result"`
	RiskReward    string   `json:"risk_reward"`
	PnlMoney      *float64 `json:"pnl_money,omitempty"`
	PnlPercentage *float64 `json:"pnl_percentage,omitempty"`
	PnlPips       *float64 `json:"pnl_pips,omitempty"`
	Description   string   `json:"description"`
	Confluences   string   `json:"confluences"`
	Feeling       int      `json:"feeling"`
	ScreenshotURL string   `json:"screenshot_url"`
	IsPublic      bool     `json:"is_public"`
}

// clampFeeling bounds the confidence score to 0-100.
func clampFeeling(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func validateInput(input TradeInput) (domain.Result, domain.Bias, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"title", input.Title},
		{"pair", input.Pair},
		{"timeframe", input.Timeframe},
		{"risk_reward", input.RiskReward},
		{"bias", input.Bias},
		{"result", input.Result},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return "", "", &domain.MissingFieldsError{Fields: missing}
	}

	result, ok := domain.ParseResult(input.Result)
	if !ok {
		return "", "", &domain.InvalidFieldError{Field: "result", Value: input.Result}
	}
	bias, ok := domain.ParseBias(input.Bias)
	if !ok {
		return "", "", &domain.InvalidFieldError{Field: "bias", Value: input.Bias}
	}
	return result, bias, nil
}

// BuildTrade validates the input, enforces the free-tier quota and assembles
// a trade with its P&L reconciled against the profile's account balance. It
// does not persist. The quota is checked here, against server-held stats, so
// client-supplied counts cannot bypass it.
func BuildTrade(input TradeInput, profile domain.Profile, stats domain.UserStats, freeLimit int) (*domain.Trade, pnl.Reconciled, error) {
	result, bias, err := validateInput(input)
	if err != nil {
		return nil, pnl.Reconciled{}, err
	}

	if !profile.IsPremium && stats.TotalTrades >= freeLimit {
		return nil, pnl.Reconciled{}, domain.ErrQuotaExceeded
	}

	rec := pnl.Reconcile(input.PnlMoney, input.PnlPercentage, profile.AccountBalance)
	feeling := clampFeeling(input.Feeling)

	trade := &domain.Trade{
		ID:            uuid.New(),
		UserID:        profile.UserID,
		Title:         input.Title,
		Pair:          input.Pair,
		Timeframe:     input.Timeframe,
		Session:       input.Session,
		Bias:          bias,
		Result:        result,
		RiskReward:    input.RiskReward,
		Description:   input.Description,
		Confluences:   input.Confluences,
		Feeling:       feeling,
		ScreenshotURL: input.ScreenshotURL,
		IsPublic:      input.IsPublic,
	}
	if input.PnlMoney != nil || input.PnlPercentage != nil {
		money, percentage := rec.Money, rec.Percentage
		trade.PnlMoney = &money
		trade.PnlPercentage = &percentage
	}
	if input.PnlPips != nil {
		pips := pnl.Round1(*input.PnlPips)
		trade.PnlPips = &pips
	}

	return trade, rec, nil
}
