package logger

import (
	"strings"

	"go.uber.org/zap"
)

// MaskPhone creates a zap field with all but the last 4 digits of a phone
// number masked. Caller phone numbers are PII and must not reach the logs.
func MaskPhone(key, phone string) zap.Field {
	return zap.String(key, maskPhoneNumber(phone))
}

// MaskPhoneIfPresent masks phone if not empty
func MaskPhoneIfPresent(key, phone string) zap.Field {
	if phone == "" {
		return zap.String(key, "")
	}
	return MaskPhone(key, phone)
}

func maskPhoneNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) <= 4 {
		return strings.Repeat("•", len(phone))
	}
	return strings.Repeat("•", len(phone)-4) + phone[len(phone)-4:]
}
