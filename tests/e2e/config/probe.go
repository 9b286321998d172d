package config

import (
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// probePaths are tried in order; any HTTP response counts as reachable.
var probePaths = []string{"/healthz", "/"}

// detectReachableBaseURLVerbose keeps initial when it answers, otherwise tries local
// host/port permutations and returns the first that does.
func detectReachableBaseURLVerbose(initial string) string {
	start := time.Now()
	if Reachable(initial) {
		return initial
	}

	tried := []string{initial}
	for _, c := range candidateBaseURLs(initial) {
		tried = append(tried, c)
		if Reachable(c) {
			log.Printf("[e2e-config] Auto-detect switched BaseURL %s -> %s (%.0fms; order=%v)", initial, c, time.Since(start).Seconds()*1000, tried)
			return c
		}
	}
	log.Printf("[e2e-config] Auto-detect kept unreachable BaseURL=%s (tried=%v in %.0fms)", initial, tried, time.Since(start).Seconds()*1000)
	return initial
}

// candidateBaseURLs lists fallbacks for initial, de-duplicated, in probe order.
func candidateBaseURLs(initial string) []string {
	candidates := []string{}
	u, err := url.Parse(initial)
	if err == nil && u.Host != "" {
		scheme := u.Scheme
		if scheme == "" {
			scheme = "http"
		}
		port := u.Port()
		if port == "" {
			port = "8080"
		}
		ports := []string{port, "8080", "3000", "5000"}
		if host := u.Hostname(); host != "localhost" && host != "127.0.0.1" {
			for _, p := range ports {
				candidates = append(candidates, scheme+"://localhost:"+p)
			}
		}
		for _, p := range ports {
			candidates = append(candidates, scheme+"://127.0.0.1:"+p)
		}
	}
	candidates = append(candidates, "http://localhost:8080")

	seen := map[string]struct{}{initial: {}}
	uniq := []string{}
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		uniq = append(uniq, c)
	}
	return uniq
}

// Reachable reports whether base accepts a TCP connection and answers HTTP.
func Reachable(base string) bool {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Host
	if !strings.Contains(host, ":") {
		if u.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}
	d := net.Dialer{Timeout: 250 * time.Millisecond}
	conn, err := d.Dial("tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()

	client := &http.Client{Timeout: 800 * time.Millisecond}
	for _, path := range probePaths {
		req, err := http.NewRequest(http.MethodGet, base+path, nil)
		if err != nil {
			continue
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			return true
		}
	}
	return false
}
