package discovery

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Device is one discovered candidate.
type Device struct {
	// IP is the address the device answered from.
	IP string

	// Location is the description URL from an SSDP reply, if any.
	Location string

	// FriendlyName is the advertised instance name (mDNS only).
	FriendlyName string

	// Source records which probe found the device ("ssdp" or "mdns").
	Source string
}

// Discovery sources.
const (
	SourceSSDP = "ssdp"
	SourceMDNS = "mdns"
)

// Logger interface for optional logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Options configures a Discoverer.
type Options struct {
	// Address is the SSDP probe destination.
	// Default: "239.255.255.250:1900".
	Address string

	// MDNS enables a parallel zeroconf browse.
	MDNS bool

	// Logger is optional.
	Logger Logger
}

// Discoverer finds players on the local network. Results are best-effort:
// a probe that fails part way returns whatever it collected.
type Discoverer struct {
	opts Options
}

// New creates a Discoverer.
func New(opts Options) *Discoverer {
	if opts.Address == "" {
		opts.Address = DefaultMulticastAddress
	}
	return &Discoverer{opts: opts}
}

// Discover probes for up to timeout and returns every candidate, SSDP
// answers first, deduplicated by IP. It never fails: an empty slice means
// nothing answered.
func (d *Discoverer) Discover(ctx context.Context, timeout time.Duration) []Device {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var ssdpDevices, mdnsDevices []Device

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ssdpDevices = d.probeSSDP(gctx)
		return nil
	})
	if d.opts.MDNS {
		g.Go(func() error {
			devices, err := browseMDNS(gctx)
			if err != nil {
				d.logWarn("mdns browse failed", "error", err)
				return nil
			}
			mdnsDevices = devices
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // both probes swallow their errors

	devices := mergeDevices(ssdpDevices, mdnsDevices)
	d.logInfo("discovery finished", "candidates", len(devices), "timeout", timeout.String())
	return devices
}

// DiscoverFirst returns the IP of the first candidate.
//
// Returns:
//   - string: Device IP
//   - error: ErrNoDevice when nothing answered within timeout
func (d *Discoverer) DiscoverFirst(ctx context.Context, timeout time.Duration) (string, error) {
	devices := d.Discover(ctx, timeout)
	if len(devices) == 0 {
		return "", fmt.Errorf("%w within %s", ErrNoDevice, timeout)
	}
	return devices[0].IP, nil
}

// mergeDevices concatenates lists, keeping the first entry per IP.
func mergeDevices(lists ...[]Device) []Device {
	seen := make(map[string]bool)
	var out []Device
	for _, list := range lists {
		for _, dev := range list {
			if dev.IP == "" || seen[dev.IP] {
				continue
			}
			seen[dev.IP] = true
			out = append(out, dev)
		}
	}
	return out
}

func (d *Discoverer) logDebug(msg string, keysAndValues ...any) {
	if d.opts.Logger != nil {
		d.opts.Logger.Debug(msg, keysAndValues...)
	}
}

func (d *Discoverer) logInfo(msg string, keysAndValues ...any) {
	if d.opts.Logger != nil {
		d.opts.Logger.Info(msg, keysAndValues...)
	}
}

func (d *Discoverer) logWarn(msg string, keysAndValues ...any) {
	if d.opts.Logger != nil {
		d.opts.Logger.Warn(msg, keysAndValues...)
	}
}
