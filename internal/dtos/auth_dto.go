package dtos

type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required,len=4"`
}
