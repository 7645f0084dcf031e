package st7789

import "fmt"

type command byte

const (
	softwareReset      command = 0x01
	sleepOut           command = 0x11
	normalDisplayOn    command = 0x13
	displayInversionOn command = 0x21
	displayOn          command = 0x29
	columnAddressSet   command = 0x2A
	rowAddressSet      command = 0x2B
	memoryWrite        command = 0x2C
	memoryAccessCtl    command = 0x36
	interfacePixelFmt  command = 0x3A
)

var commandNames = map[command]string{
	softwareReset:      "SWRESET",
	sleepOut:           "SLPOUT",
	normalDisplayOn:    "NORON",
	displayInversionOn: "INVON",
	displayOn:          "DISPON",
	columnAddressSet:   "CASET",
	rowAddressSet:      "RASET",
	memoryWrite:        "RAMWR",
	memoryAccessCtl:    "MADCTL",
	interfacePixelFmt:  "COLMOD",
}

func (c command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return fmt.Sprintf("command(0x%02X)", byte(c))
}

// 16 bits per pixel, RGB565.
const pixelFormat565 = 0x05

// initStep is one entry of the power-on command table.
type initStep struct {
	cmd   command
	data  []byte
	delay int // milliseconds to wait before the next command
}

// initSequence brings the controller out of sleep into 16-bit portrait mode.
// The delays are settle times required by the controller.
var initSequence = []initStep{
	{cmd: softwareReset, delay: 100},
	{cmd: sleepOut, delay: 50},
	{cmd: interfacePixelFmt, data: []byte{pixelFormat565}},
	{cmd: memoryAccessCtl, data: []byte{0x00}},
	{cmd: displayInversionOn},
	{cmd: normalDisplayOn},
	{cmd: displayOn, delay: 10},
}
