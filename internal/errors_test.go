package internal

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindValidation.Status())
	assert.Equal(t, http.StatusConflict, KindDuplicate.Status())
	assert.Equal(t, http.StatusUnauthorized, KindUnauthorized.Status())
	assert.Equal(t, http.StatusForbidden, KindForbidden.Status())
	assert.Equal(t, http.StatusNotFound, KindNotFound.Status())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.Status())
}

func TestKindOf(t *testing.T) {
	err := Errorf(KindDuplicate, "a user already exists with that %s", "email")
	assert.Equal(t, KindDuplicate, KindOf(err))
	assert.Equal(t, "a user already exists with that email", err.Error())

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}
