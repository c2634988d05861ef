package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: name is required", common.ErrorValidation), http.StatusBadRequest},
		{common.ErrorNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: limit is 10 bytes", common.ErrorTooLarge), http.StatusRequestEntityTooLarge},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{common.ErrVersionConflict, http.StatusConflict},
		{fmt.Errorf("%w: %w", common.ErrorUpstream, errors.New("s3 down")), http.StatusInternalServerError},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2024-05-01")
	assert.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Equal(*got))

	got, err = parseDate("2024-05-01T10:30:00.5+01:00")
	assert.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 1, 9, 30, 0, 500_000_000, time.UTC).Equal(*got))
	assert.Equal(t, time.UTC, got.Location())

	got, err = parseDate("")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseDate("May 1st")
	assert.ErrorIs(t, err, common.ErrorValidation)
}
