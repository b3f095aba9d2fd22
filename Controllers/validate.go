package Controllers

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Shared request validator for the controller package.
var validate = validator.New()

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
