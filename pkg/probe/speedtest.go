package probe

import (
	"context"
	"os"
	"strings"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"github.com/shirou/gopsutil/v4/net"
	"golang.org/x/text/language"

	"github.com/frostleo/atlas/pkg/errors"
	"github.com/frostleo/atlas/pkg/facts"
	"github.com/frostleo/atlas/pkg/report"
)

const pingInterval = 500 * time.Millisecond

// speedTest measures echo latency and best-effort throughput against
// the configured target. Results are cached and a limiter backstops the
// cache, so an aggressive caller still produces at most one active
// probe per window.
func (p *NetworkProbe) speedTest(ctx context.Context) (*report.SpeedTest, error) {
	target := p.target()
	return facts.Get(p.cache, speedTestKey(target), speedTestTTL, func() (*report.SpeedTest, error) {
		if p.limiter != nil && !p.limiter.Allow() {
			return nil, errors.New(errors.ErrCodeUnavailable, "speed test throttled")
		}
		return runSpeedTest(ctx, target, p.opts.PingCount, p.opts.SpeedTestTimeout)
	})
}

// speedTestKey namespaces cached results by target, so a retarget does
// not serve a stale result from the previous target's window.
func speedTestKey(target string) string {
	return keySpeedTest + ":" + target
}

func (p *NetworkProbe) target() string {
	if p.opts.PingTarget != "" {
		return p.opts.PingTarget
	}
	return defaultPingTarget(systemLocale())
}

func runSpeedTest(ctx context.Context, target string, count int, timeout time.Duration) (*report.SpeedTest, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	before, berr := net.IOCountersWithContext(ctx, false)
	start := time.Now()

	pinger := probing.New(target)
	pinger.Count = count
	pinger.Interval = pingInterval
	pinger.Timeout = timeout
	// Unprivileged UDP mode works without CAP_NET_RAW.
	pinger.SetPrivileged(false)

	if err := pinger.RunWithContext(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "echo probe failed", err)
	}
	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return nil, errors.NewWithContext(errors.ErrCodeTimeout, "no echo replies received",
			map[string]any{"target": target, "sent": stats.PacketsSent})
	}

	out := &report.SpeedTest{
		Target:     target,
		LatencyMs:  float64(stats.AvgRtt) / float64(time.Millisecond),
		PacketLoss: stats.PacketLoss,
	}

	// Throughput is inferred from host-wide counter movement across the
	// probe window. An idle link legitimately reports nothing.
	if berr == nil && len(before) > 0 {
		elapsed := time.Since(start)
		if after, aerr := net.IOCountersWithContext(ctx, false); aerr == nil && len(after) > 0 {
			out.DownloadMbps = deltaMbps(before[0].BytesRecv, after[0].BytesRecv, elapsed)
			out.UploadMbps = deltaMbps(before[0].BytesSent, after[0].BytesSent, elapsed)
		}
	}

	return out, nil
}

// deltaMbps converts counter movement to megabits per second. Counters
// can reset between samples, so a non-increasing pair reports nothing
// rather than an underflowed delta.
func deltaMbps(before, after uint64, elapsed time.Duration) *float64 {
	if after <= before || elapsed <= 0 {
		return nil
	}
	v := mbps(after-before, elapsed)
	return &v
}

func mbps(bytes uint64, elapsed time.Duration) float64 {
	return float64(bytes) * 8 / elapsed.Seconds() / 1e6
}

// defaultPingTarget picks an echo target reachable from the machine's
// region. Google is blackholed in mainland China, so Chinese locales
// probe Baidu instead.
func defaultPingTarget(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "www.google.com"
	}
	matcher := language.NewMatcher([]language.Tag{language.English, language.Chinese})
	if _, idx, conf := matcher.Match(tag); idx == 1 && conf > language.No {
		return "baidu.com"
	}
	return "www.google.com"
}

// systemLocale reads the POSIX locale variables in precedence order and
// normalizes the value to a BCP 47 tag ("zh_CN.UTF-8" becomes "zh-CN").
func systemLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if i := strings.IndexByte(v, '.'); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}
