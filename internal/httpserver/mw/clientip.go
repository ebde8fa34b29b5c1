package mw

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// proxyHeaders are consulted in order when the service sits behind a trusted
// tunnel. The first header holding a parseable address wins.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// clientAddr resolves the address a bookmarks request came from. Proxy
// headers are ignored unless trustProxy is set; X-Forwarded-For contributes
// its left-most valid entry. The zero Addr means nothing parseable was found.
func clientAddr(r *http.Request, trustProxy bool) netip.Addr {
	if trustProxy {
		for _, h := range proxyHeaders {
			for _, part := range strings.Split(r.Header.Get(h), ",") {
				if a, ok := parseAddr(part); ok {
					return a
				}
			}
		}
	}
	a, _ := parseAddr(r.RemoteAddr)
	return a
}

// clientKey is clientAddr as a string, falling back to the raw RemoteAddr
// so unparseable peers still get a stable log value and bucket.
func clientKey(r *http.Request, trustProxy bool) string {
	if a := clientAddr(r, trustProxy); a.IsValid() {
		return a.String()
	}
	return r.RemoteAddr
}

// parseAddr accepts "ip", "ip:port" and "[v6]:port". IPv4-mapped IPv6
// addresses are unmapped so they match IPv4 rules.
func parseAddr(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}, false
	}
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr().Unmap(), true
	}
	a, err := netip.ParseAddr(strings.Trim(s, "[]"))
	if err != nil {
		return netip.Addr{}, false
	}
	return a.Unmap(), true
}

// stripPort drops the port from a Host header value.
func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// prefixSet holds the networks allowed to reach the probe endpoints. Bare
// addresses become single-address prefixes; invalid entries are skipped.
type prefixSet []netip.Prefix

func parsePrefixSet(list []string) (prefixSet, []string) {
	var (
		set     prefixSet
		skipped []string
	)
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			set = append(set, p.Masked())
			continue
		}
		if a, ok := parseAddr(s); ok {
			set = append(set, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		skipped = append(skipped, s)
	}
	return set, skipped
}

func (s prefixSet) contains(a netip.Addr) bool {
	if !a.IsValid() {
		return false
	}
	for _, p := range s {
		if p.Contains(a) {
			return true
		}
	}
	return false
}
