// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"errors"
	"fmt"
	"net"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/toothrot/pistats/internal/logger"
	"golang.org/x/sys/unix"
)

// Default source paths.
const (
	ProcStat    = "/proc/stat"
	ProcMeminfo = "/proc/meminfo"
	ProcUptime  = "/proc/uptime"
	ProcLoadavg = "/proc/loadavg"
	ProcNetDev  = "/proc/net/dev"
	ProcNetTCP  = "/proc/net/tcp"
	ProcNetTCP6 = "/proc/net/tcp6"
	ThermalZone = "/sys/class/thermal/thermal_zone0/temp"
	Hostname    = "/etc/hostname"
)

// vcgencmdPaths are tried in order to read the GPU temperature.
var vcgencmdPaths = []string{"vcgencmd", "/usr/bin/vcgencmd", "/opt/vc/bin/vcgencmd"}

// FsStat is the subset of statfs(2) used for disk usage, in bytes.
type FsStat struct {
	Total uint64
	Free  uint64
	Avail uint64
}

// Opts configures a Collector. Zero fields use the live system.
type Opts struct {
	// Fs is the filesystem procfs and sysfs are read from.
	Fs afero.Fs
	// DiskPath is the mount point whose usage is reported; default "/".
	DiskPath string
	// Iface limits network counters to one interface.
	Iface string

	// Run executes a command and returns its standard output.
	Run func(name string, args ...string) ([]byte, error)
	// Statfs reports the size of the filesystem containing path.
	Statfs func(path string) (FsStat, error)
	// LocalIP returns the address of the interface used for outbound traffic.
	LocalIP func() (string, error)
	Now     func() time.Time

	Logger logger.Logger
}

// Collector produces Snapshots. CPU usage and network throughput are deltas
// against the previous call, so a Collector is not safe for concurrent use.
type Collector struct {
	o Opts

	prevCPU    cpuTimes
	hasPrevCPU bool
	lastCPU    float64

	prevNet   uint64
	prevNetAt time.Time
	hasNet    bool
}

// NewCollector returns a Collector reading from the sources in o.
func NewCollector(o Opts) *Collector {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.DiskPath == "" {
		o.DiskPath = "/"
	}
	if o.Run == nil {
		o.Run = func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		}
	}
	if o.Statfs == nil {
		o.Statfs = statfs
	}
	if o.LocalIP == nil {
		o.LocalIP = outboundIP
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = logger.Noop()
	}
	return &Collector{o: o}
}

// Collect samples every metric. It never fails; unreadable metrics keep
// their defaults and the cause is logged at debug level.
func (c *Collector) Collect() Snapshot {
	now := c.o.Now()
	s := Snapshot{
		Time:     now,
		Uptime:   NA,
		IP:       NA,
		Hostname: NA,
	}
	var err error

	if s.CPUPercent, err = c.cpuPercent(); err != nil {
		c.fail("cpu", err)
	}
	if s.MemoryPercent, err = c.memoryPercent(); err != nil {
		c.fail("memory", err)
	}
	if s.CPUTempC, err = c.cpuTemp(); err != nil {
		c.fail("cpu temperature", err)
	}
	if s.GPUTempC, err = c.gpuTemp(); err != nil {
		c.fail("gpu temperature", err)
	}
	if s.Disk, err = c.disk(); err != nil {
		c.fail("disk", err)
	}
	if s.LoadAvg, err = c.loadAvg(); err != nil {
		c.fail("load", err)
	}
	if s.NetworkBytes, s.NetworkRate, err = c.network(now); err != nil {
		c.fail("network", err)
	}
	if up, err := c.uptime(); err != nil {
		c.fail("uptime", err)
	} else {
		s.Uptime = up
	}
	if ip, err := c.o.LocalIP(); err != nil {
		c.fail("ip", err)
	} else {
		s.IP = ip
	}
	if h, err := c.hostname(); err != nil {
		c.fail("hostname", err)
	} else {
		s.Hostname = h
	}
	if s.Processes, err = c.processes(); err != nil {
		c.fail("processes", err)
	}
	if s.Connections, err = c.connections(); err != nil {
		c.fail("connections", err)
	}
	return s
}

func (c *Collector) fail(metric string, err error) {
	c.o.Logger.Debug("metrics: %s unavailable: %v", metric, err)
}

func (c *Collector) read(path string) (string, error) {
	b, err := afero.ReadFile(c.o.Fs, path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// cpuPercent is the busy share since the previous call, or since boot on the
// first call.
func (c *Collector) cpuPercent() (float64, error) {
	s, err := c.read(ProcStat)
	if err != nil {
		return 0, err
	}
	cur, err := parseCPUTimes(s)
	if err != nil {
		return 0, err
	}
	prev := cpuTimes{}
	if c.hasPrevCPU {
		prev = c.prevCPU
	}
	if p, ok := busyPercent(prev, cur); ok {
		c.lastCPU = p
	}
	c.prevCPU, c.hasPrevCPU = cur, true
	return c.lastCPU, nil
}

func (c *Collector) memoryPercent() (float64, error) {
	s, err := c.read(ProcMeminfo)
	if err != nil {
		return 0, err
	}
	return parseMemoryPercent(s)
}

func (c *Collector) cpuTemp() (float64, error) {
	s, err := c.read(ThermalZone)
	if err != nil {
		return 0, err
	}
	return parseMilliCelsius(s)
}

func (c *Collector) gpuTemp() (float64, error) {
	var errs []error
	for _, p := range vcgencmdPaths {
		out, err := c.o.Run(p, "measure_temp")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return parseVcgencmdTemp(string(out))
	}
	return 0, errors.Join(errs...)
}

func (c *Collector) disk() (DiskUsage, error) {
	st, err := c.o.Statfs(c.o.DiskPath)
	if err != nil {
		return DiskUsage{}, err
	}
	if st.Total == 0 || st.Free > st.Total {
		return DiskUsage{}, fmt.Errorf("statfs(%q) reported %d bytes total", c.o.DiskPath, st.Total)
	}
	used := st.Total - st.Free
	return DiskUsage{
		Percent:    float64(used) / float64(st.Total) * 100,
		UsedBytes:  used,
		TotalBytes: st.Total,
	}, nil
}

func (c *Collector) loadAvg() (float64, error) {
	s, err := c.read(ProcLoadavg)
	if err != nil {
		return 0, err
	}
	return parseLoadAvg(s)
}

// network returns the byte counter and the rate since the previous call.
// The first call, and any call after a counter reset, reports a rate of 0.
func (c *Collector) network(now time.Time) (uint64, float64, error) {
	s, err := c.read(ProcNetDev)
	if err != nil {
		c.hasNet = false
		return 0, 0, err
	}
	total, err := parseNetDev(s, c.o.Iface)
	if err != nil {
		c.hasNet = false
		return 0, 0, err
	}
	var rate float64
	if c.hasNet && total >= c.prevNet {
		if dt := now.Sub(c.prevNetAt).Seconds(); dt > 0 {
			rate = float64(total-c.prevNet) / dt
		}
	}
	c.prevNet, c.prevNetAt, c.hasNet = total, now, true
	return total, rate, nil
}

func (c *Collector) uptime() (string, error) {
	s, err := c.read(ProcUptime)
	if err != nil {
		return "", err
	}
	d, err := parseUptime(s)
	if err != nil {
		return "", err
	}
	return FormatUptime(d), nil
}

func (c *Collector) hostname() (string, error) {
	s, err := c.read(Hostname)
	if err != nil {
		return "", err
	}
	h := strings.TrimSpace(s)
	if h == "" {
		return "", fmt.Errorf("%s is empty", Hostname)
	}
	return h, nil
}

func (c *Collector) processes() (int, error) {
	entries, err := afero.ReadDir(c.o.Fs, "/proc")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() && isPID(e.Name()) {
			n++
		}
	}
	return n, nil
}

func (c *Collector) connections() (Connections, error) {
	var conns Connections
	var errs []error
	for _, p := range []string{ProcNetTCP, ProcNetTCP6} {
		s, err := c.read(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		countTCP(s, &conns)
	}
	if len(errs) == 2 {
		return Connections{}, errors.Join(errs...)
	}
	return conns, nil
}

func statfs(path string) (FsStat, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FsStat{}, fmt.Errorf("unix.Statfs(%q) = %w", path, err)
	}
	bs := uint64(st.Bsize)
	return FsStat{
		Total: st.Blocks * bs,
		Free:  st.Bfree * bs,
		Avail: st.Bavail * bs,
	}, nil
}

// outboundIP finds the local address the kernel would route public traffic
// from. Dialing UDP sends no packets.
func outboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", fmt.Errorf("unexpected local address %v", conn.LocalAddr())
	}
	return addr.IP.String(), nil
}
