package httpserver

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedProxies lists the peers whose X-Forwarded-For and X-Real-IP
// headers are believed. A nil set trusts nobody.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies accepts IPs and CIDRs. It returns nil for an empty list.
func ParseTrustedProxies(entries []string) (*TrustedProxies, error) {
	var out []netip.Prefix
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		out = append(out, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &TrustedProxies{prefixes: out}, nil
}

func (t *TrustedProxies) contains(a netip.Addr) bool {
	if t == nil || !a.IsValid() {
		return false
	}
	a = a.Unmap()
	for _, p := range t.prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP is the socket peer unless that peer is a trusted proxy, in which
// case the right-most untrusted X-Forwarded-For hop (or X-Real-IP) wins.
func ClientIP(r *http.Request, trusted *TrustedProxies) string {
	peer := parseAddr(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		peer = parseAddr(host)
	}
	if !peer.IsValid() {
		return strings.TrimSpace(r.RemoteAddr)
	}
	if !trusted.contains(peer) {
		return peer.Unmap().String()
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := parseAddr(hops[i])
			if hop.IsValid() && !trusted.contains(hop) {
				return hop.Unmap().String()
			}
		}
	}
	if realIP := parseAddr(r.Header.Get("X-Real-IP")); realIP.IsValid() {
		return realIP.Unmap().String()
	}
	return peer.Unmap().String()
}

func parseAddr(s string) netip.Addr {
	a, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}
	}
	return a
}
