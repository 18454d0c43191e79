package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("complete draft passes", func(t *testing.T) {
		assert.NoError(t, Validate(ModuleDraft{Title: "T", Description: "D"}))
	})

	t.Run("missing fields are named by form name", func(t *testing.T) {
		err := Validate(ModuleDraft{Hours: "2 hours"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"title", "description"}, verr.Fields)
	})

	t.Run("whitespace only is missing after Normalize", func(t *testing.T) {
		err := Validate(SubmoduleDraft{Title: "  ", Description: "D"}.Normalize())
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"title"}, verr.Fields)
	})
}

func TestModuleDraft_Duration(t *testing.T) {
	assert.Equal(t, Hours(1), ModuleDraft{}.Duration(), "empty hours default to one hour")
	assert.Equal(t, Hours(3), ModuleDraft{Hours: "3"}.Duration())

	m := Module{ID: "m1", Title: "T", Description: "D", Hours: ParseDuration("2-3 hours")}
	d := DraftFromModule(m)
	assert.Equal(t, "2-3 hours", d.Hours)
	assert.Equal(t, m.Hours, d.Duration(), "ranges survive an edit round trip")
}
