package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/JobConnect/internal/auth"
	"github.com/justsurfingit/JobConnect/internal/dtos"
	"github.com/justsurfingit/JobConnect/internal/services"
)

type AuthHandler struct {
	Gate     *auth.OTPGate
	Sessions *services.SessionService
}

func NewAuthHandler(gate *auth.OTPGate, sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{Gate: gate, Sessions: sessions}
}

// SendCode is POST /auth/code. The "SMS" comes back in the response body.
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req dtos.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	code, err := h.Gate.SendCode(req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "JobConnect Verification Code: " + code, "code": code})
}

// Verify is POST /auth/verify. A successful login also starts the app-open ad.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dtos.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	user, err := h.Gate.Verify(req.Phone, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	overlay, err := h.Sessions.Login(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"user": user}
	if overlay.ID != 0 {
		resp["overlay"] = overlay
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Sessions.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}
