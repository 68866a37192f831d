package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// phoneRegex accepts an optional leading + followed by up to 12 digits.
var phoneRegex = regexp.MustCompile(`^\+?\d{0,12}$`)

// RegisterValidators hooks custom rules into gin's binding engine.
// Call once before the router starts serving.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phoneRegex.MatchString(fl.Field().String())
		})
	}
}
