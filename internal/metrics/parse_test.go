package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCPUTimes(t *testing.T) {
	stat := "cpu  100 0 50 800 50 0 0 0 0 0\ncpu0 50 0 25 400 25 0 0 0 0 0\nintr 1 2 3\n"
	got, err := parseCPUTimes(stat)
	require.NoError(t, err)
	assert.Equal(t, cpuTimes{total: 1000, idle: 850}, got)

	_, err = parseCPUTimes("intr 1 2 3\n")
	assert.Error(t, err)
	_, err = parseCPUTimes("cpu 1 2\n")
	assert.Error(t, err)
	_, err = parseCPUTimes("cpu a b c d e\n")
	assert.Error(t, err)
}

func TestBusyPercent(t *testing.T) {
	p, ok := busyPercent(cpuTimes{total: 1000, idle: 850}, cpuTimes{total: 1200, idle: 900})
	require.True(t, ok)
	assert.InDelta(t, 75.0, p, 1e-9)

	_, ok = busyPercent(cpuTimes{total: 1000, idle: 850}, cpuTimes{total: 1000, idle: 850})
	assert.False(t, ok, "no elapsed time")
	_, ok = busyPercent(cpuTimes{total: 1000, idle: 850}, cpuTimes{total: 500, idle: 100})
	assert.False(t, ok, "counter reset")
}

func TestParseMemoryPercent(t *testing.T) {
	tests := []struct {
		name    string
		meminfo string
		want    float64
		wantErr bool
	}{
		{
			name:    "available",
			meminfo: "MemTotal:       8000 kB\nMemFree:        1000 kB\nMemAvailable:   6000 kB\n",
			want:    25,
		},
		{
			name:    "free fallback",
			meminfo: "MemTotal:       8000 kB\nMemFree:        2000 kB\n",
			want:    75,
		},
		{name: "no total", meminfo: "MemFree: 1 kB\n", wantErr: true},
		{name: "no free", meminfo: "MemTotal: 1 kB\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMemoryPercent(tt.meminfo)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseTemperatures(t *testing.T) {
	c, err := parseMilliCelsius("48312\n")
	require.NoError(t, err)
	assert.InDelta(t, 48.312, c, 1e-9)
	_, err = parseMilliCelsius("hot")
	assert.Error(t, err)

	g, err := parseVcgencmdTemp("temp=51.5'C\n")
	require.NoError(t, err)
	assert.InDelta(t, 51.5, g, 1e-9)
	_, err = parseVcgencmdTemp("error")
	assert.Error(t, err)
	_, err = parseVcgencmdTemp("temp=x'C")
	assert.Error(t, err)
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{59 * time.Second, "0m"},
		{12 * time.Minute, "12m"},
		{4*time.Hour + 12*time.Minute, "4h 12m"},
		{3*24*time.Hour + 4*time.Hour + 59*time.Minute, "3d 4h"},
		{-time.Hour, "0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUptime(tt.d), "FormatUptime(%v)", tt.d)
	}
}

func TestParseUptimeAndLoad(t *testing.T) {
	d, err := parseUptime("3725.50 14000.00\n")
	require.NoError(t, err)
	assert.Equal(t, 3725500*time.Millisecond, d)
	_, err = parseUptime("")
	assert.Error(t, err)

	l, err := parseLoadAvg("0.52 0.58 0.59 1/234 5678\n")
	require.NoError(t, err)
	assert.Equal(t, 0.52, l)
	_, err = parseLoadAvg("")
	assert.Error(t, err)
}

const netDev = `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo: 5000      50    0    0    0     0          0         0     5000      50    0    0    0     0       0          0
  eth0: 1000      10    0    0    0     0          0         0      200       2    0    0    0     0       0          0
 wlan0:   30       1    0    0    0     0          0         0        4       1    0    0    0     0       0          0
`

func TestParseNetDev(t *testing.T) {
	all, err := parseNetDev(netDev, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), all, "loopback is excluded")

	eth, err := parseNetDev(netDev, "eth0")
	require.NoError(t, err)
	assert.Equal(t, uint64(1200), eth)

	lo, err := parseNetDev(netDev, "lo")
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), lo)

	_, err = parseNetDev(netDev, "usb0")
	assert.Error(t, err)
}

func TestCountTCP(t *testing.T) {
	tcp := `  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode
   0: 00000000:0016 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 1 1 0000000000000000 100 0 0 10 0
   1: 0100007F:0277 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 2 1 0000000000000000 100 0 0 10 0
   2: 0A00000F:0016 0A000001:C350 01 00000000:00000000 02:00000000 00000000     0        0 3 4 0000000000000000 20 4 29 10 -1
   3: 0A00000F:0016 0A000001:C351 06 00000000:00000000 00:00000000 00000000     0        0 0 3 0000000000000000
`
	var c Connections
	countTCP(tcp, &c)
	assert.Equal(t, Connections{Established: 1, Listening: 2, Total: 4}, c)
}

func TestIsPID(t *testing.T) {
	assert.True(t, isPID("1"))
	assert.True(t, isPID("31337"))
	assert.False(t, isPID(""))
	assert.False(t, isPID("self"))
	assert.False(t, isPID("12a"))
}
