package metrics

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// cpuTimes are the aggregate jiffy counters from the first line of
// /proc/stat.
type cpuTimes struct {
	total, idle uint64
}

// parseCPUTimes parses the aggregate "cpu" line of /proc/stat. Idle time
// includes iowait.
func parseCPUTimes(procStat string) (cpuTimes, error) {
	scanner := bufio.NewScanner(strings.NewReader(procStat))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return cpuTimes{}, fmt.Errorf("invalid /proc/stat cpu line: %q", line)
		}
		var t cpuTimes
		// Fields: cpu user nice system idle iowait irq softirq steal guest guest_nice.
		// guest and guest_nice are already counted in user and nice.
		for i := 1; i < len(fields) && i <= 8; i++ {
			v, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				return cpuTimes{}, fmt.Errorf("parsing cpu field %d: %w", i, err)
			}
			t.total += v
			if i == 4 || i == 5 {
				t.idle += v
			}
		}
		return t, nil
	}
	if err := scanner.Err(); err != nil {
		return cpuTimes{}, fmt.Errorf("scanning /proc/stat: %w", err)
	}
	return cpuTimes{}, fmt.Errorf("no cpu line in /proc/stat")
}

// busyPercent is the share of non-idle time between prev and cur.
func busyPercent(prev, cur cpuTimes) (float64, bool) {
	if cur.total <= prev.total || cur.idle < prev.idle {
		return 0, false
	}
	dt := cur.total - prev.total
	di := cur.idle - prev.idle
	if di > dt {
		return 0, false
	}
	return float64(dt-di) / float64(dt) * 100, true
}

// parseMemoryPercent returns the share of MemTotal that is not available.
// MemFree is used on kernels without MemAvailable.
func parseMemoryPercent(meminfo string) (float64, error) {
	var total, free, available int64 = -1, -1, -1
	scanner := bufio.NewScanner(strings.NewReader(meminfo))
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}
		v, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			continue
		}
		switch strings.TrimSuffix(parts[0], ":") {
		case "MemTotal":
			total = v
		case "MemFree":
			free = v
		case "MemAvailable":
			available = v
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scanning /proc/meminfo: %w", err)
	}
	if total <= 0 {
		return 0, fmt.Errorf("no MemTotal in /proc/meminfo")
	}
	if available < 0 {
		available = free
	}
	if available < 0 {
		return 0, fmt.Errorf("no MemAvailable or MemFree in /proc/meminfo")
	}
	return float64(total-available) / float64(total) * 100, nil
}

// parseMilliCelsius parses a sysfs thermal zone reading.
func parseMilliCelsius(s string) (float64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing thermal zone: %w", err)
	}
	return float64(v) / 1000, nil
}

// parseVcgencmdTemp parses output like "temp=48.3'C".
func parseVcgencmdTemp(out string) (float64, error) {
	s := strings.TrimSpace(out)
	i := strings.IndexByte(s, '=')
	if i < 0 {
		return 0, fmt.Errorf("unexpected vcgencmd output %q", out)
	}
	s = s[i+1:]
	if j := strings.IndexByte(s, '\''); j >= 0 {
		s = s[:j]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing vcgencmd temperature: %w", err)
	}
	return v, nil
}

// parseUptime returns the first field of /proc/uptime.
func parseUptime(s string) (time.Duration, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty /proc/uptime")
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parsing /proc/uptime: %w", err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// FormatUptime renders d with its two most significant units: "3d 4h",
// "4h 12m" or "12m".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	days := secs / 86400
	hours := secs % 86400 / 3600
	minutes := secs % 3600 / 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// parseLoadAvg returns the one minute load average.
func parseLoadAvg(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty /proc/loadavg")
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parsing /proc/loadavg: %w", err)
	}
	return v, nil
}

// parseNetDev sums received and transmitted bytes from /proc/net/dev. An
// empty iface sums every interface except loopback.
func parseNetDev(s, iface string) (uint64, error) {
	var total uint64
	found := false
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		line := scanner.Text()
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		name := strings.TrimSpace(line[:colon])
		if iface == "" && name == "lo" || iface != "" && name != iface {
			continue
		}
		fields := strings.Fields(line[colon+1:])
		if len(fields) < 9 {
			return 0, fmt.Errorf("invalid /proc/net/dev line for %s", name)
		}
		rx, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing %s rx bytes: %w", name, err)
		}
		tx, err := strconv.ParseUint(fields[8], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing %s tx bytes: %w", name, err)
		}
		total += rx + tx
		found = true
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scanning /proc/net/dev: %w", err)
	}
	if !found && iface != "" {
		return 0, fmt.Errorf("interface %q not found", iface)
	}
	return total, nil
}

// TCP states as encoded in /proc/net/tcp.
const (
	tcpEstablished = "01"
	tcpListen      = "0A"
)

// countTCP adds the sockets listed in a /proc/net/tcp or tcp6 table to c.
func countTCP(s string, c *Connections) {
	scanner := bufio.NewScanner(strings.NewReader(s))
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		c.Total++
		switch strings.ToUpper(fields[3]) {
		case tcpEstablished:
			c.Established++
		case tcpListen:
			c.Listening++
		}
	}
}

func isPID(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
