// Package config loads the YAML document that describes one gateway
// instance's listening port, proxy set, and routing groups, grounded on
// the teacher's own YAML-via-yaml.v3 configuration shape and the
// original Rust src/config.rs schema this spec is distilled from.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trojan-gate/trojan-gate/adapter/outbound"
)

// DefaultSocksPort is used when socks-port is omitted from config,
// matching the original's config.socks_port.unwrap_or(7891).
const DefaultSocksPort = 7891

// RawConfig is the on-disk document shape.
type RawConfig struct {
	SocksPort    int             `yaml:"socks-port"`
	APIAddress   string          `yaml:"api-address"`
	RoutingGroup string          `yaml:"routing-group"`
	Proxies      []RawProxy      `yaml:"proxies"`
	ProxyGroups  []RawProxyGroup `yaml:"proxy-groups"`
	LogLevel     string          `yaml:"log-level"`
}

// RawProxy is one entry of the proxies list, tagged by Type the way the
// original's Proxy enum is tagged.
type RawProxy struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	Server         string `yaml:"server"`
	Port           uint16 `yaml:"port"`
	Password       string `yaml:"password"`
	SNI            string `yaml:"sni"`
	SkipCertVerify bool   `yaml:"skip-cert-verify"`
	UUID           string `yaml:"uuid"`
	AlterID        uint16 `yaml:"alterId"`
	Network        string `yaml:"network"`
	WSPath         string `yaml:"ws-path"`
	WSHost         string `yaml:"ws-host"`
}

// RawProxyGroup is one routing group: a name and the fixed list of
// outbound names a client may switch the group to.
type RawProxyGroup struct {
	Name    string   `yaml:"name"`
	Proxies []string `yaml:"proxies"`
}

// Config is the parsed, validated document ready to build the handler
// registry and routing runtime from.
type Config struct {
	SocksPort    int
	APIAddress   string
	RoutingGroup string
	LogLevel     string
	Handlers     []outbound.Handler
	ProxyGroups  []RawProxyGroup
}

// UnmarshalFile reads and parses path into a Config, building one
// outbound.Handler per recognized proxy entry. A proxy entry whose type
// isn't recognized is supplemented as outbound.RejectName rather than
// failing the whole load, per SPEC_FULL.md §4.2.
func UnmarshalFile(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	raw := &RawConfig{}
	if err := yaml.Unmarshal(buf, raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if raw.SocksPort == 0 {
		raw.SocksPort = DefaultSocksPort
	}
	if raw.RoutingGroup == "" {
		return nil, fmt.Errorf("config: routing-group is required")
	}

	handlers, err := parseProxies(raw.Proxies)
	if err != nil {
		return nil, err
	}

	return &Config{
		SocksPort:    raw.SocksPort,
		APIAddress:   raw.APIAddress,
		RoutingGroup: raw.RoutingGroup,
		LogLevel:     raw.LogLevel,
		Handlers:     handlers,
		ProxyGroups:  raw.ProxyGroups,
	}, nil
}

func parseProxies(entries []RawProxy) ([]outbound.Handler, error) {
	handlers := make([]outbound.Handler, 0, len(entries))
	for _, p := range entries {
		h, err := parseProxy(p)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
	}
	return handlers, nil
}

func parseProxy(p RawProxy) (outbound.Handler, error) {
	switch p.Type {
	case "direct":
		return outbound.NewDirect(), nil
	case "trojan":
		return outbound.NewTrojan(outbound.TrojanOption{
			Name:           p.Name,
			Server:         p.Server,
			Port:           p.Port,
			Password:       p.Password,
			SNI:            p.SNI,
			SkipCertVerify: p.SkipCertVerify,
		}), nil
	case "vmess":
		return outbound.NewVmess(outbound.VmessOption{
			Name:    p.Name,
			Server:  p.Server,
			Port:    p.Port,
			UUID:    p.UUID,
			AlterID: p.AlterID,
			Network: p.Network,
			WSPath:  p.WSPath,
			WSHost:  p.WSHost,
		})
	default:
		return outbound.NewReject(), nil
	}
}
