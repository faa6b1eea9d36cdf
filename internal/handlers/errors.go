package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/JobConnect/internal/ads"
	"github.com/justsurfingit/JobConnect/internal/auth"
	"github.com/justsurfingit/JobConnect/internal/services"
)

// statusFor maps domain errors onto HTTP codes. Gating refusals are 409s:
// the user may simply try again later.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidPhone), errors.Is(err, auth.ErrInvalidOTP):
		return http.StatusBadRequest
	case errors.Is(err, ads.ErrMustFinishWatching), errors.Is(err, ads.ErrOverlayActive),
		errors.Is(err, services.ErrDuplicateJob):
		return http.StatusConflict
	case errors.Is(err, ads.ErrNoOverlay):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// bindingMessage turns validator output into one readable line.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid JSON format: " + err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("%s must be %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
}
