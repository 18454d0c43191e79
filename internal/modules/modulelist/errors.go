package modulelist

import (
	"errors"

	"github.com/nfrund/coursewizard/internal/domain"
)

func isValidation(err error) bool {
	var verr *domain.ValidationError
	return errors.As(err, &verr)
}

func isNoCourse(err error) bool {
	return errors.Is(err, domain.ErrNoCourseContext)
}
