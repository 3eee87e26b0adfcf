package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"growup-backend/services"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginFunc func(ctx context.Context, email, password string) (*services.LoginResult, error)

// login adapts an email/password login to a route.
func (h *Handler) login(fn loginFunc, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			badRequest(c, "Email and password are required.")
			return
		}
		res, err := fn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			renderError(c, h.logger, err, "An internal server error occurred during login.")
			return
		}
		success(c, http.StatusOK, message, res)
	}
}

func (h *Handler) Login() gin.HandlerFunc {
	return h.login(h.svc.Auth.Login, "Login successful")
}

func (h *Handler) LoginUser() gin.HandlerFunc {
	return h.login(h.svc.Auth.LoginUser, "User login successful.")
}

func (h *Handler) LoginAdmin() gin.HandlerFunc {
	return h.login(h.svc.Auth.LoginAdmin, "Admin login successful.")
}

func (h *Handler) LoginLeader(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		badRequest(c, "password is required.")
		return
	}
	portals, err := h.svc.Auth.LoginLeader(c.Request.Context(), req.Password)
	if err != nil {
		renderError(c, h.logger, err, "An internal server error occurred.")
		return
	}
	success(c, http.StatusOK, "leader login successful.", portals)
}
