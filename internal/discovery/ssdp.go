package discovery

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
)

// DefaultMulticastAddress is the SSDP group and port.
const DefaultMulticastAddress = "239.255.255.250:1900"

// readBufferSize bounds one SSDP reply.
const readBufferSize = 2048

// SearchTargets are probed in order. Receivers answer the vendor token and
// the generic renderer token inconsistently, so all three are sent.
var SearchTargets = []string{
	"urn:schemas-denon-com:device:ACT-Denon:1",
	"urn:schemas-upnp-org:device:MediaRenderer:1",
	"ssdp:all",
}

// vendorKeywords are matched against the lower-cased reply.
var vendorKeywords = []string{"heos", "denon", "marantz"}

// probeMessage builds one M-SEARCH request.
func probeMessage(target string) []byte {
	return []byte("M-SEARCH * HTTP/1.1\r\n" +
		"HOST: " + DefaultMulticastAddress + "\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		"MX: 3\r\n" +
		"ST: " + target + "\r\n" +
		"\r\n")
}

// isCandidate reports whether a reply mentions a known vendor.
func isCandidate(reply []byte) bool {
	lower := bytes.ToLower(reply)
	for _, kw := range vendorKeywords {
		if bytes.Contains(lower, []byte(kw)) {
			return true
		}
	}
	return false
}

// parseLocation extracts the LOCATION header, matched case-insensitively.
func parseLocation(reply []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(reply))
	for scanner.Scan() {
		name, value, ok := strings.Cut(scanner.Text(), ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "location") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// probeSSDP sends one probe per search target and collects replies until
// ctx ends or the socket fails.
func (d *Discoverer) probeSSDP(ctx context.Context) []Device {
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		d.logWarn("ssdp socket failed", "error", err)
		return nil
	}
	defer conn.Close()

	// Unblock ReadFrom when the caller gives up.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetReadDeadline(deadline); err != nil {
			d.logWarn("ssdp deadline failed", "error", err)
			return nil
		}
	}

	dst, err := net.ResolveUDPAddr("udp4", d.opts.Address)
	if err != nil {
		d.logWarn("ssdp address invalid", "address", d.opts.Address, "error", err)
		return nil
	}

	if d.sendProbes(conn, dst) == 0 {
		d.logWarn("no ssdp probe could be sent", "address", d.opts.Address)
	}

	var devices []Device
	seen := make(map[string]bool)
	buf := make([]byte, readBufferSize)

	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			d.logDebug("ssdp receive stopped", "error", err)
			return devices
		}

		ip := hostOf(addr)
		if ip == "" || seen[ip] {
			continue
		}
		reply := buf[:n]
		if !isCandidate(reply) {
			continue
		}
		seen[ip] = true

		dev := Device{IP: ip, Location: parseLocation(reply), Source: SourceSSDP}
		d.logDebug("ssdp candidate", "ip", dev.IP, "location", dev.Location)
		devices = append(devices, dev)
	}
}

// sendProbes writes one probe per search target and returns how many went
// out. A failed target is logged and skipped; replies to the others are
// still collected.
func (d *Discoverer) sendProbes(conn net.PacketConn, dst net.Addr) int {
	sent := 0
	for _, target := range SearchTargets {
		if _, err := conn.WriteTo(probeMessage(target), dst); err != nil {
			d.logWarn("ssdp probe failed", "target", target, "error", err)
			continue
		}
		sent++
	}
	return sent
}

func hostOf(addr net.Addr) string {
	if udp, ok := addr.(*net.UDPAddr); ok {
		return udp.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return ""
	}
	return host
}

// String renders a device for logs.
func (dev Device) String() string {
	if dev.FriendlyName != "" {
		return fmt.Sprintf("%s (%s via %s)", dev.FriendlyName, dev.IP, dev.Source)
	}
	return fmt.Sprintf("%s via %s", dev.IP, dev.Source)
}
