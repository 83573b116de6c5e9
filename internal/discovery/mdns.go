package discovery

import (
	"context"
	"fmt"

	"github.com/grandcat/zeroconf"
)

// Players advertise their control service under this type.
const (
	mdnsService = "_heos-audio._tcp"
	mdnsDomain  = "local."
)

// browseMDNS collects advertised players until ctx ends.
func browseMDNS(ctx context.Context) ([]Device, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("mdns resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry, 16)
	if err := resolver.Browse(ctx, mdnsService, mdnsDomain, entries); err != nil {
		return nil, fmt.Errorf("mdns browse: %w", err)
	}

	var devices []Device
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return devices, nil
			}
			if dev, ok := deviceFromEntry(entry); ok {
				devices = append(devices, dev)
			}
		case <-ctx.Done():
			return devices, nil
		}
	}
}

// deviceFromEntry converts a browse result. Entries without an IPv4
// address are skipped.
func deviceFromEntry(entry *zeroconf.ServiceEntry) (Device, bool) {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return Device{}, false
	}
	return Device{
		IP:           entry.AddrIPv4[0].String(),
		FriendlyName: entry.Instance,
		Source:       SourceMDNS,
	}, true
}
