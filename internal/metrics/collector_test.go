package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothrot/pistats/internal/logger"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
}

func newFixture(t *testing.T) (*Collector, afero.Fs, *fakeClock) {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		ProcStat:        "cpu  100 0 50 800 50 0 0 0 0 0\n",
		ProcMeminfo:     "MemTotal: 8000 kB\nMemFree: 1000 kB\nMemAvailable: 6000 kB\n",
		ThermalZone:     "48500\n",
		ProcLoadavg:     "1.25 0.80 0.60 2/300 999\n",
		ProcUptime:      "93784.12 100000.00\n",
		ProcNetDev:      netDev,
		Hostname:        "raspberrypi\n",
		ProcNetTCP:      "header\n 0: a b 0A\n 1: a b 01\n",
		ProcNetTCP6:     "header\n 0: a b 01\n",
		"/proc/1/stat":  "",
		"/proc/42/stat": "",
		"/proc/self/x":  "",
		"/proc/version": "Linux",
	})
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCollector(Opts{
		Fs: fs,
		Run: func(name string, args ...string) ([]byte, error) {
			return []byte("temp=51.0'C\n"), nil
		},
		Statfs: func(path string) (FsStat, error) {
			return FsStat{Total: 1000, Free: 250, Avail: 200}, nil
		},
		LocalIP: func() (string, error) { return "192.168.1.20", nil },
		Now:     clock.Now,
	})
	return c, fs, clock
}

func TestCollect(t *testing.T) {
	c, _, clock := newFixture(t)
	s := c.Collect()

	assert.Equal(t, clock.t, s.Time)
	assert.InDelta(t, 15.0, s.CPUPercent, 1e-9, "since boot on the first call")
	assert.InDelta(t, 25.0, s.MemoryPercent, 1e-9)
	assert.InDelta(t, 48.5, s.CPUTempC, 1e-9)
	assert.InDelta(t, 51.0, s.GPUTempC, 1e-9)
	assert.Equal(t, DiskUsage{Percent: 75, UsedBytes: 750, TotalBytes: 1000}, s.Disk)
	assert.Equal(t, 1.25, s.LoadAvg)
	assert.Equal(t, uint64(1234), s.NetworkBytes)
	assert.Equal(t, 0.0, s.NetworkRate)
	assert.Equal(t, "1d 2h", s.Uptime)
	assert.Equal(t, "192.168.1.20", s.IP)
	assert.Equal(t, "raspberrypi", s.Hostname)
	assert.Equal(t, 2, s.Processes)
	assert.Equal(t, Connections{Established: 2, Listening: 1, Total: 3}, s.Connections)
}

func TestCollectDeltas(t *testing.T) {
	c, fs, clock := newFixture(t)
	c.Collect()

	writeFiles(t, fs, map[string]string{
		ProcStat: "cpu  250 0 100 850 50 0 0 0 0 0\n",
		ProcNetDev: `Inter-|
 face |
  eth0: 3000 0 0 0 0 0 0 0 2234 0 0 0 0 0 0 0
 wlan0:   0 0 0 0 0 0 0 0    0 0 0 0 0 0 0 0
`,
	})
	clock.t = clock.t.Add(2 * time.Second)
	s := c.Collect()

	// 250 jiffies elapsed, 50 of them idle.
	assert.InDelta(t, 80.0, s.CPUPercent, 1e-9)
	assert.InDelta(t, 2000.0, s.NetworkRate, 1e-9)
	assert.InDelta(t, 2.0, s.Value(Network), 1e-9)

	// An unchanged counter keeps the previous reading.
	clock.t = clock.t.Add(time.Second)
	s = c.Collect()
	assert.InDelta(t, 80.0, s.CPUPercent, 1e-9)
	assert.Equal(t, 0.0, s.NetworkRate)
}

func TestCollectDefaults(t *testing.T) {
	boom := errors.New("boom")
	log := logger.NewBufferLogger()
	c := NewCollector(Opts{
		Fs:      afero.NewMemMapFs(),
		Run:     func(string, ...string) ([]byte, error) { return nil, boom },
		Statfs:  func(string) (FsStat, error) { return FsStat{}, boom },
		LocalIP: func() (string, error) { return "", boom },
		Logger:  log,
	})
	s := c.Collect()

	assert.Equal(t, 0.0, s.CPUPercent)
	assert.Equal(t, 0.0, s.MemoryPercent)
	assert.Equal(t, 0.0, s.CPUTempC)
	assert.Equal(t, 0.0, s.GPUTempC)
	assert.Equal(t, DiskUsage{}, s.Disk)
	assert.Equal(t, 0.0, s.LoadAvg)
	assert.Equal(t, 0.0, s.NetworkRate)
	assert.Equal(t, NA, s.Uptime)
	assert.Equal(t, NA, s.IP)
	assert.Equal(t, NA, s.Hostname)
	assert.Equal(t, 0, s.Processes)
	assert.Equal(t, Connections{}, s.Connections)
	assert.True(t, log.HasLevel("debug"))
}

func TestCollectPartialFailure(t *testing.T) {
	c, fs, _ := newFixture(t)
	require.NoError(t, fs.Remove(ThermalZone))
	require.NoError(t, fs.Remove(ProcNetTCP6))
	s := c.Collect()

	assert.Equal(t, 0.0, s.CPUTempC)
	assert.InDelta(t, 25.0, s.MemoryPercent, 1e-9, "other metrics are unaffected")
	assert.Equal(t, Connections{Established: 1, Listening: 1, Total: 2}, s.Connections)
}

func TestGPUTempFallsBackThroughPaths(t *testing.T) {
	var tried []string
	c := NewCollector(Opts{
		Fs: afero.NewMemMapFs(),
		Run: func(name string, args ...string) ([]byte, error) {
			tried = append(tried, name)
			if name == "/opt/vc/bin/vcgencmd" {
				return []byte("temp=40.0'C"), nil
			}
			return nil, errors.New("not found")
		},
		Statfs:  func(string) (FsStat, error) { return FsStat{}, nil },
		LocalIP: func() (string, error) { return "", nil },
	})
	s := c.Collect()
	assert.Equal(t, 40.0, s.GPUTempC)
	assert.Equal(t, vcgencmdPaths, tried)
}

func TestSnapshotValue(t *testing.T) {
	s := Snapshot{
		CPUPercent:    10,
		MemoryPercent: 20,
		CPUTempC:      30,
		GPUTempC:      40,
		Disk:          DiskUsage{Percent: 50},
		LoadAvg:       1.5,
		NetworkRate:   12000,
	}
	want := map[Key]float64{
		CPU:     10,
		Memory:  20,
		CPUTemp: 30,
		GPUTemp: 40,
		Disk:    50,
		Load:    1.5,
		Network: 12,
		System:  0,
		"bogus": 0,
	}
	for k, v := range want {
		assert.Equal(t, v, s.Value(k), "Value(%q)", k)
	}
}
