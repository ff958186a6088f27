package models

import "github.com/go-playground/validator/v10"

// validate covers the static structural rules; configured numeric bounds
// are checked explicitly in the constructors against config.Limits.
var validate = validator.New()
