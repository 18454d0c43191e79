package view_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/view"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &domain.ValidationError{Fields: []string{"title"}}, "Please fill in: title."},
		{"wrapped sentinel", fmt.Errorf("load: %w", domain.ErrNoCourseContext), "No course is active. Start the wizard from a course first."},
		{"service status", &domain.TransportError{Op: "add", Status: 400, Err: errors.New("bad module")}, "The course service rejected the request: bad module"},
		{"unreachable", &domain.TransportError{Op: "add", Err: errors.New("dial tcp")}, "The course service could not be reached. Please try again."},
		{"unknown", errors.New("x"), "Something went wrong. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, view.ErrorMessage(tt.err))
		})
	}
}
