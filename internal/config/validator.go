package config

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateStruct checks the validate tags on a parsed configuration struct
func validateStruct(s interface{}) error {
	return validate.Struct(s)
}
