package view

import (
	"errors"
	"strings"

	"github.com/nfrund/coursewizard/internal/domain"
)

// ErrorMessage turns an error returned by a controller into the notification
// shown to the user.
func ErrorMessage(err error) string {
	var (
		verr  *domain.ValidationError
		stale *domain.StaleVersionError
		terr  *domain.TransportError
	)
	switch {
	case errors.As(err, &verr):
		return "Please fill in: " + strings.Join(verr.Fields, ", ") + "."
	case errors.As(err, &stale):
		return "The generated submodules for this module are gone. Open the module again to regenerate them."
	case errors.Is(err, domain.ErrNoCourseContext):
		return "No course is active. Start the wizard from a course first."
	case errors.Is(err, domain.ErrNoSubmoduleVersion):
		return "Submodules have not been generated for this module yet."
	case errors.Is(err, domain.ErrGenerationInProgress):
		return "Another module is still generating submodules. Please wait for it to finish."
	case errors.Is(err, domain.ErrNotConfirmed):
		return "Deletion was not confirmed."
	case errors.Is(err, domain.ErrIndexOutOfRange), errors.Is(err, domain.ErrNoDraft):
		return "That item no longer exists. The list has been reloaded."
	case errors.As(err, &terr):
		if terr.Status != 0 {
			return "The course service rejected the request: " + terr.Err.Error()
		}
		return "The course service could not be reached. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
