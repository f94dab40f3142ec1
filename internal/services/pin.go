package services

import (
	"fmt"

	"github.com/dmitrijs2005/securenotes/internal/common"
)

// ValidatePin checks that pin is exactly length ASCII digits.
func ValidatePin(pin string, length int) error {
	if len(pin) != length {
		return fmt.Errorf("%w: PIN must have %d digits", common.ErrInvalidPinFormat, length)
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return fmt.Errorf("%w: PIN must contain digits only", common.ErrInvalidPinFormat)
		}
	}
	return nil
}
