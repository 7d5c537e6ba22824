package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// HostInfo is the static machine identity shown in the text banner and
// the report header. It is display data, never part of a snapshot.
type HostInfo struct {
	Hostname string
	Platform string
	Kernel   string
	Uptime   time.Duration
}

// CollectHostInfo samples hostname, platform, kernel and uptime.
func CollectHostInfo(ctx context.Context) (HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{}, fmt.Errorf("reading host info: %w", err)
	}

	return HostInfo{
		Hostname: info.Hostname,
		Platform: fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion),
		Kernel:   info.KernelVersion,
		Uptime:   time.Duration(info.Uptime) * time.Second,
	}, nil
}
