package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/account-ledger/internal/application"
	"github.com/oksasatya/account-ledger/internal/interface/middleware"
	"github.com/oksasatya/account-ledger/pkg/helpers"
	"github.com/oksasatya/account-ledger/pkg/response"
	"github.com/oksasatya/account-ledger/pkg/validation"
)

type AccountHandler struct {
	Auth    *application.AuthService
	Ledger  *application.LedgerService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAccountHandler(auth *application.AuthService, ledger *application.LedgerService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AccountHandler {
	return &AccountHandler{Auth: auth, Ledger: ledger, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// Amounts travel as strings so no precision is lost before decimal parsing.
type registerRequest struct {
	Name           string `json:"name" binding:"required,max=120"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,pwd"`
	InitialBalance string `json:"initial_balance" binding:"required,amount"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required,amount"`
}

type transferRequest struct {
	To     string `json:"to" binding:"required,email"`
	Amount string `json:"amount" binding:"required,amount"`
}

type projectRequest struct {
	Rate    string `json:"rate" binding:"required,amount"`
	Periods string `json:"periods" binding:"required"`
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	acc, err := h.Ledger.Register(c.Request.Context(), application.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Secret:         req.Password,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, acc.Summary(), "account registered", nil)
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	acc, pair, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, acc.Summary(), "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *AccountHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Auth.Refresh(c.Request.Context(), refresh)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *AccountHandler) Logout(c *gin.Context) {
	sess, _ := middleware.SessionFrom(c)
	if err := h.Auth.Logout(c.Request.Context(), sess); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("account_id", sess.AccountID).Warn("logout: drop session failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *AccountHandler) Account(c *gin.Context) {
	sess, _ := middleware.SessionFrom(c)
	acc, err := h.Ledger.Current(c.Request.Context(), sess)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, acc.Summary(), "account", nil)
}

func (h *AccountHandler) Deposit(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sess, _ := middleware.SessionFrom(c)
	acc, err := h.Ledger.Deposit(c.Request.Context(), sess, req.Amount)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, acc.Summary(), "deposit successful", nil)
}

func (h *AccountHandler) Withdraw(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sess, _ := middleware.SessionFrom(c)
	acc, err := h.Ledger.Withdraw(c.Request.Context(), sess, req.Amount)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, acc.Summary(), "withdrawal successful", nil)
}

func (h *AccountHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sess, _ := middleware.SessionFrom(c)
	res, err := h.Ledger.Transfer(c.Request.Context(), sess, req.To, req.Amount)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	// Only the sender's own summary is returned; the recipient's balance is private.
	response.Success(c, http.StatusOK, res.Sender.Summary(), "transfer successful", map[string]any{"to": res.Recipient.Email})
}

func (h *AccountHandler) ProjectInterest(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sess, _ := middleware.SessionFrom(c)
	p, err := h.Ledger.ProjectInterest(c.Request.Context(), sess, req.Rate, req.Periods)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "interest projected", nil)
}

func (h *AccountHandler) ApplyInterest(c *gin.Context) {
	sess, _ := middleware.SessionFrom(c)
	acc, err := h.Ledger.ApplyInterest(c.Request.Context(), sess)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, acc.Summary(), "interest applied", nil)
}
