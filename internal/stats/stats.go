package stats

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

var processStart = time.Now()

// SystemInfo is a point-in-time snapshot for the /stats command.
type SystemInfo struct {
	Hostname     string
	OS           string
	SystemUptime uint64

	CPUCores int
	CPUUsage float64

	MemUsed    uint64
	MemTotal   uint64
	MemPercent float64

	ProcessRSS    uint64
	ProcessUptime time.Duration
	Goroutines    int
	GoVersion     string
}

// Collect gathers host and process metrics. Individual probes that fail
// leave their fields zero rather than failing the whole snapshot.
func Collect() (*SystemInfo, error) {
	hostInfo, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("host info: %w", err)
	}

	info := &SystemInfo{
		Hostname:      hostInfo.Hostname,
		OS:            hostInfo.OS,
		SystemUptime:  hostInfo.Uptime,
		ProcessUptime: time.Since(processStart),
		Goroutines:    runtime.NumGoroutine(),
		GoVersion:     runtime.Version(),
	}

	info.CPUCores, _ = cpu.Counts(true)
	if usage, err := cpu.Percent(0, false); err == nil && len(usage) > 0 {
		info.CPUUsage = usage[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemUsed = vm.Used
		info.MemTotal = vm.Total
		info.MemPercent = vm.UsedPercent
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			info.ProcessRSS = mi.RSS
		}
	}

	return info, nil
}
