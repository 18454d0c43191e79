package handlers

import (
	"github.com/nfrund/coursewizard/internal/domain"
)

// CustomValidator implements echo's Validator with the draft validator, so that
// c.Validate reports *domain.ValidationError.
type CustomValidator struct{}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i any) error {
	return domain.Validate(i)
}

// ItemRequest addresses one entry of a list by position. ID is the entry's id as
// rendered, so a list that changed in between is detected.
type ItemRequest struct {
	Index   int    `param:"index"`
	ID      string `form:"id"`
	Confirm string `form:"confirm"`
}

// Confirmed reports whether a delete form carried the confirmation.
func (r ItemRequest) Confirmed() bool { return r.Confirm == "yes" }
