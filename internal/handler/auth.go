package handler

import (
	"context"
	"net/http"

	"agilemate/internal/logger"
	"agilemate/internal/model"
	"agilemate/internal/service"

	"github.com/gin-gonic/gin"
)

type Accounts interface {
	Register(ctx context.Context, email, password, displayName string) (*model.Member, error)
	Login(ctx context.Context, email, password string) (*model.Member, error)
}

type TokenIssuer interface {
	Issue(id model.Identity) (string, error)
}

type AuthHandler struct {
	accounts Accounts
	tokens   TokenIssuer
}

func NewAuthHandler(accounts Accounts, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

// POST /api/register  body: {"email","password","displayName"}
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.accounts.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("register.ok", "uid", m.ID)
	h.respondWithToken(c, http.StatusCreated, m)
}

// POST /api/login  body: {"email","password"}
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if service.KindOf(err) == service.KindUnauthenticated {
			logger.Warn("login.failed", "email", req.Email)
		}
		writeError(c, err)
		return
	}
	logger.Info("login.ok", "uid", m.ID)
	h.respondWithToken(c, http.StatusOK, m)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, m *model.Member) {
	id := service.IdentityOf(m)
	token, err := h.tokens.Issue(id)
	if err != nil {
		writeError(c, service.Internal("Failed to issue token", err))
		return
	}
	c.JSON(status, model.LoginResponse{Token: token, User: id})
}
