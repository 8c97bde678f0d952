package validator

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// Register wires domain validation rules into gin's binding engine.
// Safe to call from every handler constructor.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterValidation("notblank", notBlank)
	})
}

// notBlank rejects strings that are empty after trimming. The stock
// "required" tag accepts all-whitespace values.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
