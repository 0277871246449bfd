package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/account-ledger/internal/application"
	"github.com/oksasatya/account-ledger/internal/interface/middleware"
	"github.com/oksasatya/account-ledger/pkg/response"
	"github.com/oksasatya/account-ledger/pkg/validation"
)

type AdminHandler struct {
	Admin  *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(admin *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Admin: admin, Logger: logger}
}

type resetCredentialRequest struct {
	// Empty resets to the configured default secret.
	Password string `json:"password" binding:"omitempty,pwd"`
}

func (h *AdminHandler) List(c *gin.Context) {
	sess, _ := middleware.SessionFrom(c)
	all, err := h.Admin.ListAll(c.Request.Context(), sess)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, all, "accounts", map[string]any{"total": len(all)})
}

// Search queries accounts by name or email. Query params: q (required), size.
func (h *AdminHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	sess, _ := middleware.SessionFrom(c)
	found, err := h.Admin.Search(c.Request.Context(), sess, q, size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, found, "search results", map[string]any{"total": len(found)})
}

func (h *AdminHandler) Delete(c *gin.Context) {
	sess, _ := middleware.SessionFrom(c)
	id := c.Param("id")
	if err := h.Admin.DeleteAccount(c.Request.Context(), sess, id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": id}, "account deleted", nil)
}

// ResetCredential sets a new secret for the account. The effective secret is
// echoed only when the default was used, so the administrator can hand it over.
func (h *AdminHandler) ResetCredential(c *gin.Context) {
	var req resetCredentialRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
	}
	sess, _ := middleware.SessionFrom(c)
	id := c.Param("id")
	secret, err := h.Admin.ResetCredential(c.Request.Context(), sess, id, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	data := map[string]any{"id": id}
	if req.Password == "" {
		data["password"] = secret
	}
	response.Success[any](c, http.StatusOK, data, "credential reset", nil)
}
