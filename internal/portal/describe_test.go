package portal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

func TestDescribe_EveryKindHasItsOwnMessage(t *testing.T) {
	errs := []error{
		apperrors.NewValidationError("bad", nil),
		apperrors.NewMissingSelection(),
		apperrors.NewNotFound("client", nil),
		apperrors.NewInvalidTransition("client", "atendido", "deliver photos"),
		apperrors.NewTokenExpired(),
		apperrors.NewTokenAlreadyUsed(),
		apperrors.NewTokenNotFound(),
		apperrors.NewConnectionError(errors.New("refused")),
		apperrors.NewUnauthorized("nope"),
		apperrors.NewForbidden("nope"),
		apperrors.NewConflict("dup", nil),
		errors.New("boom"),
		ErrUploadCancelled,
	}
	seen := map[string]bool{}
	for _, err := range errs {
		msg := Describe(err)
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "duplicate message %q for %v", msg, err)
		seen[msg] = true
	}
	assert.Empty(t, Describe(nil))
}
