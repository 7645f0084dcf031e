// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics samples host telemetry from procfs, sysfs and a few system
// calls. Every field of a Snapshot is read independently and falls back to
// its zero value, or "N/A" for strings, when its source is unavailable.
package metrics

import "time"

// Key names a scalar metric that is kept in history and graphed.
type Key string

const (
	CPU     Key = "cpu"
	Memory  Key = "memory"
	CPUTemp Key = "cpu_temp"
	GPUTemp Key = "gpu_temp"
	Disk    Key = "disk"
	Load    Key = "load"
	Network Key = "network"
	// System is the host identity page. It has no scalar value.
	System Key = "system"
)

// Keys are the metrics with a scalar value, in page order.
var Keys = []Key{CPU, Memory, CPUTemp, GPUTemp, Disk, Load, Network}

// NA is the value of string fields that could not be read.
const NA = "N/A"

// DiskUsage is the usage of one filesystem.
type DiskUsage struct {
	Percent    float64
	UsedBytes  uint64
	TotalBytes uint64
}

// Connections counts TCP sockets by state.
type Connections struct {
	Established int
	Listening   int
	Total       int
}

// Snapshot is one sample of every metric.
type Snapshot struct {
	Time time.Time

	CPUPercent    float64
	MemoryPercent float64
	CPUTempC      float64
	GPUTempC      float64
	Disk          DiskUsage
	LoadAvg       float64

	// NetworkBytes is the total of received and sent bytes since boot.
	NetworkBytes uint64
	// NetworkRate is received plus sent bytes per second since the previous
	// snapshot.
	NetworkRate float64

	Uptime   string
	IP       string
	Hostname string

	Processes   int
	Connections Connections
}

// Value returns the scalar recorded in history for k. Network throughput is
// reported in KB/s. Unknown keys are 0.
func (s Snapshot) Value(k Key) float64 {
	switch k {
	case CPU:
		return s.CPUPercent
	case Memory:
		return s.MemoryPercent
	case CPUTemp:
		return s.CPUTempC
	case GPUTemp:
		return s.GPUTempC
	case Disk:
		return s.Disk.Percent
	case Load:
		return s.LoadAvg
	case Network:
		return s.NetworkRate / 1000
	}
	return 0
}
