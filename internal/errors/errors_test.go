package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormat(t *testing.T) {
	cases := []struct {
		desc string
		err  *Error
		want string
	}{
		{
			desc: "message only",
			err:  New(ErrConfig, "bad config", ""),
			want: "✗ bad config\n",
		},
		{
			desc: "with suggestion",
			err:  New(ErrConfig, "bad config", "fix it"),
			want: "✗ bad config\n\n  fix it\n",
		},
		{
			desc: "with cause",
			err:  WrapWithCode(errors.New("no such file"), ErrPanel, "open failed", "check wiring"),
			want: "✗ open failed\n\n  no such file\n\n  check wiring\n",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.want, c.err.Error())
		})
	}
}

func TestUnwrapAndIsCode(t *testing.T) {
	cause := errors.New("spi: no port")
	err := fmt.Errorf("startup: %w", PanelOpen(cause))

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, ErrPanel))
	assert.False(t, IsCode(err, ErrBus))
	assert.False(t, IsCode(nil, ErrPanel))
	assert.False(t, IsCode(cause, ErrPanel))
	assert.True(t, IsCode(PanelInit(cause), ErrBus))
}
