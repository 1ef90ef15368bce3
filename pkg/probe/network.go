package probe

import (
	"context"
	"io"
	"log/slog"
	stdnet "net"
	"net/http"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/net"
	"golang.org/x/time/rate"

	"github.com/frostleo/atlas/pkg/errors"
	"github.com/frostleo/atlas/pkg/facts"
	"github.com/frostleo/atlas/pkg/report"
)

// publicIPServices are tried in order; each returns the caller's
// address as plain text.
var publicIPServices = []string{
	"https://api.ipify.org",
	"https://icanhazip.com",
}

const publicIPTimeout = 3 * time.Second

// NetworkProbe enumerates interfaces and traffic counters, and
// optionally measures latency and throughput against an external
// target. The active portion is rate limited and cached so repeated
// collections do not flood the target.
type NetworkProbe struct {
	cache   *facts.Cache
	opts    NetworkOptions
	limiter *rate.Limiter
}

// Collect gathers interface configuration and optional active results.
func (p *NetworkProbe) Collect(ctx context.Context) (*report.NetworkInfo, error) {
	ifaces, err := net.InterfacesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to enumerate interfaces", err)
	}

	out := &report.NetworkInfo{
		Interfaces: make([]report.Interface, 0, len(ifaces)),
	}
	for _, iface := range ifaces {
		entry := report.Interface{
			Name: iface.Name,
			MAC:  iface.HardwareAddr,
			Up:   hasFlag(iface.Flags, "up"),
		}
		for _, addr := range iface.Addrs {
			entry.Addresses = append(entry.Addresses, addr.Addr)
		}
		entry.SpeedMbps = linkSpeedMbps(iface.Name)
		out.Interfaces = append(out.Interfaces, entry)
	}

	if name, ip := primaryInterface(out.Interfaces); name != "" {
		out.PrimaryInterface = &name
		out.LocalIP = &ip
	}

	if counters, cerr := net.IOCountersWithContext(ctx, false); cerr == nil && len(counters) > 0 {
		out.BytesSent = counters[0].BytesSent
		out.BytesRecv = counters[0].BytesRecv
	}

	if p.opts.PublicIPLookup || p.opts.SpeedTest {
		if ip, perr := publicIP(ctx); perr == nil {
			out.PublicIP = &ip
		} else {
			slog.Debug("public address lookup failed", "error", perr)
		}
	}

	if p.opts.SpeedTest {
		st, serr := p.speedTest(ctx)
		if serr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("speed test failed", "error", serr)
		} else {
			out.SpeedTest = st
		}
	}

	return out, nil
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}

// primaryInterface picks the first interface that is up and holds a
// non-loopback IPv4 address. OS enumeration order decides ties.
func primaryInterface(ifaces []report.Interface) (name, ip string) {
	for _, iface := range ifaces {
		if !iface.Up {
			continue
		}
		for _, addr := range iface.Addresses {
			host := addr
			if i := strings.IndexByte(host, '/'); i >= 0 {
				host = host[:i]
			}
			parsed := stdnet.ParseIP(host)
			if parsed == nil || parsed.To4() == nil || parsed.IsLoopback() {
				continue
			}
			return iface.Name, parsed.String()
		}
	}
	return "", ""
}

// publicIP resolves the externally visible address. Each service gets a
// slice of one shared deadline.
func publicIP(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, publicIPTimeout)
	defer cancel()

	var lastErr error
	for _, svc := range publicIPServices {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc, nil)
		if err != nil {
			lastErr = err
			continue
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			lastErr = err
			continue
		}
		ip := strings.TrimSpace(string(body))
		if stdnet.ParseIP(ip) != nil {
			return ip, nil
		}
	}
	return "", errors.Wrap(errors.ErrCodeUnavailable, "no public address service reachable", lastErr)
}
