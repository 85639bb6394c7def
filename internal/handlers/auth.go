package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"esgboard/internal/auth"
	"esgboard/internal/dto"
	"esgboard/internal/models"
	"esgboard/internal/repository"
	"esgboard/internal/utils"
)

type AuthHandler struct {
	log    *zap.Logger
	repo   *repository.Repository
	tokens *auth.Manager
}

func NewAuthHandler(log *zap.Logger, repo *repository.Repository, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{log: log, repo: repo, tokens: tokens}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var creds dto.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		fail(c, http.StatusBadRequest, "msg.badRequest")
		return
	}

	user, err := h.repo.GetUserByUsername(c.Request.Context(), strings.TrimSpace(creds.Username))
	if err != nil || !user.CheckPassword(creds.Password) {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			h.log.Error("Failed to load user", zap.Error(err))
		}
		fail(c, http.StatusUnauthorized, "msg.invalidCredentials")
		return
	}
	h.issue(c, user)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var creds dto.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		fail(c, http.StatusBadRequest, "msg.badRequest")
		return
	}
	username := strings.TrimSpace(creds.Username)
	switch err := utils.ValidateCredentials(username, creds.Password); {
	case errors.Is(err, utils.ErrInvalidEmail):
		fail(c, http.StatusBadRequest, "msg.invalidEmail")
		return
	case err != nil:
		fail(c, http.StatusBadRequest, "msg.weakPassword")
		return
	}

	user, err := h.repo.CreateUser(c.Request.Context(), username, creds.Password, strings.TrimSpace(creds.CompanyName))
	if errors.Is(err, repository.ErrDuplicate) {
		fail(c, http.StatusConflict, "msg.userExists")
		return
	}
	if err != nil {
		h.log.Error("Failed to create user", zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	h.log.Info("User registered", zap.Uint("userID", user.ID))
	h.issue(c, user)
}

// Refresh rotates a refresh token. The presented token is consumed even when
// issuing the new pair fails.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		fail(c, http.StatusBadRequest, "msg.badRequest")
		return
	}
	claims, err := h.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		fail(c, http.StatusUnauthorized, "msg.unauthorized")
		return
	}
	userID, err := h.repo.ConsumeRefreshToken(c.Request.Context(), claims.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.Error("Failed to consume refresh token", zap.Error(err))
		}
		fail(c, http.StatusUnauthorized, "msg.unauthorized")
		return
	}
	user, err := h.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		fail(c, http.StatusUnauthorized, "msg.unauthorized")
		return
	}
	h.issue(c, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	if err := h.repo.RevokeRefreshTokens(c.Request.Context(), user.ID); err != nil {
		h.log.Error("Failed to revoke refresh tokens", zap.Uint("userID", user.ID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	respond[any](c, http.StatusOK, nil, tr(c, "msg.loggedOut"))
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	success(c, profileOf(user))
}

func (h *AuthHandler) issue(c *gin.Context, user *models.User) {
	access, err := h.tokens.IssueAccess(user.ID, user.Username)
	if err != nil {
		h.log.Error("Failed to issue access token", zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	refresh, err := h.tokens.IssueRefresh(user.ID)
	if err != nil {
		h.log.Error("Failed to issue refresh token", zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	if err := h.repo.SaveRefreshToken(c.Request.Context(), refresh.ID, user.ID, refresh.ExpiresAt); err != nil {
		h.log.Error("Failed to store refresh token", zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	success(c, dto.AuthResult{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		User:         profileOf(user),
	})
}

func profileOf(u *models.User) dto.Profile {
	return dto.Profile{ID: u.ID, Username: u.Username, CompanyName: u.CompanyName, CreatedAt: u.CreatedAt}
}
