package util

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateToBucket(t *testing.T) {
	base := time.Date(2006, time.October, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b time.Time
		same bool
	}{
		{name: "same bucket", a: base, b: base.Add(4*time.Minute + 59*time.Second), same: true},
		{name: "next bucket", a: base, b: base.Add(5 * time.Minute), same: false},
		{name: "previous bucket", a: base, b: base.Add(-time.Second), same: false},
		{name: "time zone does not matter", a: base, b: base.In(time.FixedZone("AEST", 10*3600)), same: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, TruncateToBucket(tt.a, 300) == TruncateToBucket(tt.b, 300))
		})
	}

	assert.Equal(t, int64(-1), TruncateToBucket(time.Unix(-1, 0), 300))
}

func TestWrapErrorf(t *testing.T) {
	orig := errors.New("unknown intersection")
	err := WrapErrorf(orig, ErrBadParamInput, "site %s", "970")

	assert.ErrorIs(t, err, orig)
	assert.Equal(t, "site 970: unknown intersection", err.Error())

	var ierr *Error
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &ierr))
	assert.Equal(t, ErrBadParamInput, ierr.Code())
}
