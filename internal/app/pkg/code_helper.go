package pkg

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

// VoucherCodePrefix is stamped on every issued voucher code.
const VoucherCodePrefix = "OHH-"

var voucherCodePattern = regexp.MustCompile(`^OHH-[0-9A-F]{6}$`)

// GenerateVoucherCode returns a code of the form OHH-XXXXXX where the
// suffix is 3 crypto-random bytes rendered as uppercase hex. The 16.7M
// code space is treated as practically unique; callers must still retry
// on a unique-constraint collision at insert time.
func GenerateVoucherCode() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%02X%02X%02X", VoucherCodePrefix, b[0], b[1], b[2]), nil
}

// IsVoucherCode reports whether s looks like an issued voucher code.
func IsVoucherCode(s string) bool {
	return voucherCodePattern.MatchString(s)
}
