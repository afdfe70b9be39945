package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

const DefaultLength = 16

const (
	PrefixUser           = "usr"
	PrefixListing        = "lst"
	PrefixOrder          = "ord"
	PrefixPayment        = "pay"
	PrefixNotification   = "ntf"
	PrefixPost           = "pst"
	PrefixSlot           = "slt"
	PrefixBooking        = "bkg"
	PrefixComplaint      = "cmp"
	PrefixSavedVehicle   = "sav"
	PrefixRepairLocation = "rpl"
)

// GenerateSecureID returns "<prefix>_<random>" where random is URL-safe base64 of the given length.
func GenerateSecureID(prefix string, length int) (string, error) {
	// 3 bytes encode to 4 characters; the extra 2 bytes cover rounding.
	byteLength := (length * 3 / 4) + 2
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := strings.TrimRight(base64.URLEncoding.EncodeToString(bytes), "=")
	if len(encoded) > length {
		encoded = encoded[:length]
	}

	return fmt.Sprintf("%s_%s", prefix, encoded), nil
}

// ValidateIDFormat reports whether id looks like GenerateSecureID(expectedPrefix, n).
func ValidateIDFormat(id, expectedPrefix string) bool {
	if !strings.HasPrefix(id, expectedPrefix+"_") {
		return false
	}
	suffix := id[len(expectedPrefix)+1:]
	if len(suffix) == 0 {
		return false
	}
	for _, char := range suffix {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '-' || char == '_') {
			return false
		}
	}
	return true
}
