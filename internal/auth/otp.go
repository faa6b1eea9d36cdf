// Package auth simulates the phone + one-time-code login.
//
// Nothing here is secret: the code is fixed and the admin rule is a demo
// convention. It exists so the rest of the app has a role to branch on.
package auth

import (
	"errors"
	"log"
	"strings"
	"unicode"

	"github.com/justsurfingit/JobConnect/internal/models"
)

const (
	// DemoCode is the code every "SMS" carries.
	DemoCode = "1234"

	minPhoneDigits = 10
	adminMarker    = "000"
)

var (
	ErrInvalidPhone = errors.New("please enter a valid phone number")
	ErrInvalidOTP   = errors.New("invalid OTP, try " + DemoCode)
)

type OTPGate struct{}

func NewOTPGate() *OTPGate { return &OTPGate{} }

// NormalizePhone keeps digits only, the way the login form filters input.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// SendCode "sends" the verification code and returns it.
func (g *OTPGate) SendCode(phone string) (string, error) {
	phone = NormalizePhone(phone)
	if len(phone) < minPhoneDigits {
		return "", ErrInvalidPhone
	}
	log.Printf("📱 Verification code for %s: %s", phone, DemoCode)
	return DemoCode, nil
}

// Verify checks the code and resolves the caller's identity.
func (g *OTPGate) Verify(phone, code string) (models.User, error) {
	phone = NormalizePhone(phone)
	if len(phone) < minPhoneDigits {
		return models.User{}, ErrInvalidPhone
	}
	if code != DemoCode {
		return models.User{}, ErrInvalidOTP
	}
	role := models.RoleUser
	if strings.Contains(phone, adminMarker) {
		role = models.RoleAdmin
	}
	return models.User{Phone: phone, Role: role}, nil
}
