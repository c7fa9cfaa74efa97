package qrproof

import (
	"github.com/skip2/go-qrcode"

	"temba-ticketing/internal/errs"
)

// Image renders a proof token as a 256px PNG QR code.
func Image(token string) ([]byte, error) {
	if token == "" {
		return nil, errs.Encoding("QR data is required")
	}

	png, err := qrcode.Encode(token, qrcode.Medium, 256)
	if err != nil {
		return nil, errs.Encoding("failed to render QR image: %v", err)
	}
	return png, nil
}
