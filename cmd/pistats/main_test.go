package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothrot/pistats/internal/config"
	pserrors "github.com/toothrot/pistats/internal/errors"
)

func TestRootFlagDefaults(t *testing.T) {
	cmd := newRootCmd()
	cfg, err := config.Load("", cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestRootFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--update", "3", "--page", "12", "--slide-frames", "4", "--iface", "wlan0"}))

	cfg, err := config.Load("", cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Update)
	assert.Equal(t, 12, cfg.Page)
	assert.Equal(t, 4, cfg.SlideFrames)
	assert.Equal(t, "wlan0", cfg.Iface)
	assert.Equal(t, 20, cfg.History)
}

func TestRootRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}

func TestPrintConfig(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--print-config", "--page", "9"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "page: 9")
	assert.Contains(t, out.String(), "update: 1")
}

func TestPrintErrorEndsWithOneNewline(t *testing.T) {
	cases := []struct {
		desc string
		err  error
		want string
	}{
		{desc: "plain", err: errors.New("canvas.LoadFonts() = boom"), want: "canvas.LoadFonts() = boom\n"},
		{desc: "structured", err: pserrors.New(pserrors.ErrPanel, "Couldn't open the LCD panel", "")},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			var out bytes.Buffer
			printError(&out, c.err)
			got := out.String()
			if c.want != "" {
				assert.Equal(t, c.want, got)
			}
			assert.True(t, bytes.HasSuffix(out.Bytes(), []byte("\n")))
			assert.False(t, bytes.HasSuffix(out.Bytes(), []byte("\n\n")), "output %q", got)
		})
	}
}
