package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sitzy/sitzy/internal/config"
	"github.com/sitzy/sitzy/internal/repository"
	"github.com/sitzy/sitzy/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register: create user and return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return localized(c, http.StatusBadRequest, "invalid_email")
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return localized(c, http.StatusConflict, "email_registered")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		User:    userPart{ID: uid, Email: req.Email},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Login: verify credentials and return a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return localized(c, http.StatusUnauthorized, "login_failed")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return localized(c, http.StatusUnauthorized, "login_failed")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, Email: u.Email},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Refresh: validate by hash, revoke the old token, issue a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: userID, Email: u.Email},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
	})
}

// RefreshAccess: validate a refresh token and return a new access token
// without rotating the refresh token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the refresh token supplied in the body, ending that
// session.  Clients drop the access token locally; it expires on its own.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's account record.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Email: u.Email})
}
