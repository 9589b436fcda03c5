package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/tradetrackr/internal/auth"
	"github.com/yourorg/tradetrackr/internal/domain"
	"github.com/yourorg/tradetrackr/internal/journal"
	"github.com/yourorg/tradetrackr/internal/leaderboard"
	"github.com/yourorg/tradetrackr/internal/pnl"
	pgRepo "github.com/yourorg/tradetrackr/internal/repository/postgres"
)

type Handlers struct {
	userRepo    *pgRepo.UserRepo
	profileRepo *pgRepo.ProfileRepo
	journalSvc  *journal.Service
	boardSvc    *leaderboard.Service
	jwtSvc      *auth.JWTService
	logger      *slog.Logger
}

func NewHandlers(
	userRepo *pgRepo.UserRepo,
	profileRepo *pgRepo.ProfileRepo,
	journalSvc *journal.Service,
	boardSvc *leaderboard.Service,
	jwtSvc *auth.JWTService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		journalSvc:  journalSvc,
		boardSvc:    boardSvc,
		jwtSvc:      jwtSvc,
		logger:      logger,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string          `json:"token"`
	User    *domain.User    `json:"user"`
	Profile *domain.Profile `json:"profile"`
}

func referralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email, username and password are required")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.userRepo.Create(r.Context(), user); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	profile := &domain.Profile{
		UserID:         user.ID,
		Username:       req.Username,
		AccountBalance: domain.DefaultAccountBalance,
		ReferralCode:   referralCode(),
	}
	if err := h.profileRepo.Create(r.Context(), profile); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create profile")
		return
	}
	token, err := h.jwtSvc.Sign(user.ID, profile.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user, Profile: profile})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	profile, err := h.profileRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	token, err := h.jwtSvc.Sign(user.ID, profile.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user, Profile: profile})
}

type tradeResponse struct {
	Trade            *domain.Trade  `json:"trade"`
	CalculatedValues pnl.Reconciled `json:"calculated_values"`
}

func (h *Handlers) CreateTrade(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	var input journal.TradeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	trade, rec, err := h.journalSvc.CreateTrade(r.Context(), userID, input)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tradeResponse{Trade: trade, CalculatedValues: rec})
}

func (h *Handlers) ListTrades(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	trades, err := h.journalSvc.ListTrades(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch trades")
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

func (h *Handlers) GetTrade(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid trade id")
		return
	}
	trade, err := h.journalSvc.GetTrade(r.Context(), userID, id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trade)
}

func (h *Handlers) UpdateTrade(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid trade id")
		return
	}
	var input journal.TradeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	trade, rec, err := h.journalSvc.UpdateTrade(r.Context(), userID, id, input)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tradeResponse{Trade: trade, CalculatedValues: rec})
}

func (h *Handlers) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid trade id")
		return
	}
	if err := h.journalSvc.DeleteTrade(r.Context(), userID, id); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	profile, err := h.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	AccountBalance *float64 `json:"account_balance"`
	IsPremium      *bool    `json:"is_premium"`
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AccountBalance == nil && req.IsPremium == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.IsPremium != nil {
		if err := h.profileRepo.SetPremium(r.Context(), userID, *req.IsPremium); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update profile")
			return
		}
	}
	if req.AccountBalance != nil {
		// Re-bases percentage stats, so it goes through the service.
		profile, err := h.journalSvc.UpdateAccountBalance(r.Context(), userID, *req.AccountBalance)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
		return
	}
	profile, err := h.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type publicProfileResponse struct {
	Username  string            `json:"username"`
	IsPremium bool              `json:"is_premium"`
	Stats     *domain.UserStats `json:"stats"`
}

// GetPublicProfile is the page behind a leaderboard row: anyone can look up a
// trader by username and see their rollup, never their balance or email.
func (h *Handlers) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	profile, err := h.profileRepo.GetByUsername(r.Context(), username)
	if err != nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	stats, err := h.journalSvc.GetStats(r.Context(), profile.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, publicProfileResponse{
		Username:  profile.Username,
		IsPremium: profile.IsPremium,
		Stats:     stats,
	})
}

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	stats, err := h.journalSvc.GetStats(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type pipValueResponse struct {
	Pair     string   `json:"pair"`
	PipValue float64  `json:"pip_value"`
	LotSize  float64  `json:"lot_size"`
	Pips     *float64 `json:"pips,omitempty"`
}

// PipValueCalc resolves the pip value and lot size for a pair at the caller's
// balance tier, and optionally converts a money amount into pips for risk
// sizing.
func (h *Handlers) PipValueCalc(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	profile, err := h.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	pair := r.URL.Query().Get("pair")
	resp := pipValueResponse{
		Pair:     pair,
		PipValue: pnl.PipValue(pair, profile.AccountBalance),
		LotSize:  pnl.LotSize(profile.AccountBalance),
	}

	money, errM := strconv.ParseFloat(r.URL.Query().Get("money"), 64)
	pipsAtRisk, errP := strconv.ParseFloat(r.URL.Query().Get("pips_at_risk"), 64)
	if errM == nil && errP == nil {
		pips := pnl.PipsFromMoney(money, pipsAtRisk, resp.PipValue)
		resp.Pips = &pips
	}
	writeJSON(w, http.StatusOK, resp)
}

type maintenanceResponse struct {
	TradesUpdated int `json:"tradesUpdated"`
}

func (h *Handlers) FixStats(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	n, err := h.journalSvc.RecalculateStats(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, maintenanceResponse{TradesUpdated: n})
}

func (h *Handlers) NormalizeResults(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	n, err := h.journalSvc.NormalizeResults(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, maintenanceResponse{TradesUpdated: n})
}

func (h *Handlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	key := domain.ParseSortKey(r.URL.Query().Get("sort"))
	entries, err := h.boardSvc.Get(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// writeDomainError maps the domain error taxonomy onto HTTP. Quota and
// premium gates carry a machine-readable flag so clients can route to the
// upsell flow instead of a form-error display.
func (h *Handlers) writeDomainError(w http.ResponseWriter, err error) {
	var missingErr *domain.MissingFieldsError
	var invalidErr *domain.InvalidFieldError
	switch {
	case errors.As(err, &missingErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  missingErr.Error(),
			"fields": missingErr.Fields,
		})
	case errors.As(err, &invalidErr):
		writeError(w, http.StatusBadRequest, invalidErr.Error())
	case errors.Is(err, domain.ErrQuotaExceeded), errors.Is(err, domain.ErrPremiumRequired):
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error":            err.Error(),
			"premium_required": true,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.logger.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
