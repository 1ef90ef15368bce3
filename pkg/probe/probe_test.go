package probe

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostleo/atlas/pkg/facts"
	"github.com/frostleo/atlas/pkg/report"
)

func TestDerivedMachineIDStable(t *testing.T) {
	first := derivedMachineID()
	second := derivedMachineID()

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, first, second, "derived identifier should not change between calls")
}

func TestMachineIDNeverEmpty(t *testing.T) {
	id, err := machineID(context.TODO())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestAggregatePartitions(t *testing.T) {
	u64 := func(n uint64) *uint64 { return &n }
	f64 := func(n float64) *float64 { return &n }

	info := &report.DiskInfo{
		Partitions: []report.Partition{
			{
				Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4",
				Total: u64(100), Used: u64(40), Free: u64(60), UsedPercent: f64(40),
			},
			{
				// Usage query failed; identity only.
				Device: "nfs:/export", Mountpoint: "/mnt/stale", Fstype: "nfs",
			},
			{
				Device: "/dev/sdb1", Mountpoint: "/data", Fstype: "xfs",
				Total: u64(300), Used: u64(60), Free: u64(240), UsedPercent: f64(20),
			},
		},
	}

	aggregatePartitions(info)

	assert.Equal(t, uint64(400), info.TotalBytes)
	assert.Equal(t, uint64(100), info.UsedBytes)
	assert.Equal(t, uint64(300), info.FreeBytes)
	require.NotNil(t, info.AverageUsedPercent)
	assert.InDelta(t, 30.0, *info.AverageUsedPercent, 0.001)
}

func TestAggregatePartitionsAllFailed(t *testing.T) {
	info := &report.DiskInfo{
		Partitions: []report.Partition{
			{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
		},
	}

	aggregatePartitions(info)

	assert.Zero(t, info.TotalBytes)
	assert.Nil(t, info.AverageUsedPercent)
}

func TestPrimaryInterface(t *testing.T) {
	tests := []struct {
		name     string
		ifaces   []report.Interface
		wantName string
		wantIP   string
	}{
		{
			name: "skips loopback and down interfaces",
			ifaces: []report.Interface{
				{Name: "lo", Up: true, Addresses: []string{"127.0.0.1/8"}},
				{Name: "eth0", Up: false, Addresses: []string{"10.0.0.5/24"}},
				{Name: "eth1", Up: true, Addresses: []string{"192.168.1.20/24"}},
			},
			wantName: "eth1",
			wantIP:   "192.168.1.20",
		},
		{
			name: "skips interfaces without an IPv4 address",
			ifaces: []report.Interface{
				{Name: "wg0", Up: true, Addresses: []string{"fd00::1/64"}},
				{Name: "en0", Up: true, Addresses: []string{"fe80::1/64", "172.16.4.2/16"}},
			},
			wantName: "en0",
			wantIP:   "172.16.4.2",
		},
		{
			name: "nothing usable",
			ifaces: []report.Interface{
				{Name: "lo0", Up: true, Addresses: []string{"127.0.0.1/8"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ip := primaryInterface(tt.ifaces)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantIP, ip)
		})
	}
}

func TestHasFlag(t *testing.T) {
	assert.True(t, hasFlag([]string{"up", "broadcast"}, "up"))
	assert.True(t, hasFlag([]string{"UP"}, "up"))
	assert.False(t, hasFlag([]string{"broadcast"}, "up"))
	assert.False(t, hasFlag(nil, "up"))
}

func TestDefaultPingTarget(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"zh-CN", "baidu.com"},
		{"zh", "baidu.com"},
		{"zh-Hant-TW", "baidu.com"},
		{"en-US", "www.google.com"},
		{"de-DE", "www.google.com"},
		{"", "www.google.com"},
		{"not a locale", "www.google.com"},
	}

	for _, tt := range tests {
		if got := defaultPingTarget(tt.locale); got != tt.want {
			t.Errorf("defaultPingTarget(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestSystemLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "zh_CN.UTF-8")
	assert.Equal(t, "zh-CN", systemLocale())

	// LC_ALL wins over LANG.
	t.Setenv("LC_ALL", "en_US.UTF-8")
	assert.Equal(t, "en-US", systemLocale())

	t.Setenv("LC_ALL", "")
	t.Setenv("LANG", "")
	assert.Equal(t, "", systemLocale())
}

func TestMbps(t *testing.T) {
	// 1,250,000 bytes in one second is 10 megabits per second.
	assert.InDelta(t, 10.0, mbps(1_250_000, time.Second), 0.001)
	assert.Zero(t, mbps(0, time.Second))
}

func TestDeltaMbps(t *testing.T) {
	v := deltaMbps(1_000_000, 2_250_000, time.Second)
	require.NotNil(t, v)
	assert.InDelta(t, 10.0, *v, 0.001)

	// Counter reset between samples must not underflow into an absurd rate.
	assert.Nil(t, deltaMbps(2_250_000, 1_000_000, time.Second))
	assert.Nil(t, deltaMbps(1_000_000, 1_000_000, time.Second))
	assert.Nil(t, deltaMbps(1_000_000, 2_000_000, 0))
}

func TestSpeedTestCacheKeyedByTarget(t *testing.T) {
	cache := facts.New()

	first, err := facts.Get(cache, speedTestKey("a.example"), speedTestTTL, func() (*report.SpeedTest, error) {
		return &report.SpeedTest{Target: "a.example"}, nil
	})
	require.NoError(t, err)

	// A second target must compute its own result, not replay the first.
	second, err := facts.Get(cache, speedTestKey("b.example"), speedTestTTL, func() (*report.SpeedTest, error) {
		return &report.SpeedTest{Target: "b.example"}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, "a.example", first.Target)
	assert.Equal(t, "b.example", second.Target)
	assert.Equal(t, 2, cache.Len())
}

func TestFactoryDefaults(t *testing.T) {
	f := NewDefaultFactory()

	require.NotNil(t, f.Cache)
	assert.Equal(t, 120*time.Millisecond, f.CPUSampleWindow)
	assert.False(t, f.Network.SpeedTest)
	assert.Equal(t, 3, f.Network.PingCount)

	assert.NotNil(t, f.CreatePlatformProbe())
	assert.NotNil(t, f.CreateCPUProbe())
	assert.NotNil(t, f.CreateMemoryProbe())
	assert.NotNil(t, f.CreateDiskProbe())
	assert.NotNil(t, f.CreateNetworkProbe())
}

func TestFactoryOptions(t *testing.T) {
	f := NewDefaultFactory(
		WithCPUSampleWindow(50*time.Millisecond),
		WithNetworkOptions(NetworkOptions{
			SpeedTest:  true,
			PingTarget: "example.com",
		}),
	)

	assert.Equal(t, 50*time.Millisecond, f.CPUSampleWindow)
	assert.True(t, f.Network.SpeedTest)

	// Zero-valued tunables are backfilled at construction.
	p, ok := f.CreateNetworkProbe().(*NetworkProbe)
	require.True(t, ok)
	assert.Equal(t, 3, p.opts.PingCount)
	assert.Equal(t, 5*time.Second, p.opts.SpeedTestTimeout)
	assert.Equal(t, "example.com", p.target())
}

func TestFactorySharesSpeedTestLimiter(t *testing.T) {
	f := NewDefaultFactory()

	p1, ok := f.CreateNetworkProbe().(*NetworkProbe)
	require.True(t, ok)
	p2, ok := f.CreateNetworkProbe().(*NetworkProbe)
	require.True(t, ok)

	// Probes created for successive collections share one limiter, so
	// draining it on one throttles the other for the rest of the window.
	require.NotNil(t, p1.limiter)
	assert.Same(t, p1.limiter, p2.limiter)
	assert.True(t, p1.limiter.Allow())
	assert.False(t, p2.limiter.Allow())
}

func TestMemoryProbeCollect(t *testing.T) {
	if testing.Short() {
		t.Skip("reads live host state")
	}
	p := &MemoryProbe{}

	info, err := p.Collect(context.TODO())

	require.NoError(t, err)
	assert.Greater(t, info.Total, uint64(0))
	assert.LessOrEqual(t, info.Used, info.Total)
}

func TestPlatformProbeStableIdentity(t *testing.T) {
	if testing.Short() {
		t.Skip("reads live host state")
	}
	f := NewDefaultFactory()
	p := f.CreatePlatformProbe()

	first, err := p.Collect(context.TODO())
	require.NoError(t, err)
	second, err := p.Collect(context.TODO())
	require.NoError(t, err)

	require.NotNil(t, first.MachineID)
	require.NotNil(t, second.MachineID)
	assert.Equal(t, *first.MachineID, *second.MachineID)
}

func TestPlatformProbeCollect(t *testing.T) {
	if testing.Short() {
		t.Skip("reads live host state")
	}
	f := NewDefaultFactory()
	p := f.CreatePlatformProbe()

	info, err := p.Collect(context.TODO())

	require.NoError(t, err)
	assert.NotEmpty(t, info.OSName)
	assert.NotEmpty(t, info.Hostname)
	assert.Greater(t, info.BootTime, 0.0)
}
