package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trojan-gate/trojan-gate/adapter/outbound"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestUnmarshalFileParsesProxiesAndGroups(t *testing.T) {
	path := writeTempConfig(t, `
socks-port: 1080
routing-group: main
proxies:
  - name: my-trojan
    type: trojan
    server: example.com
    port: 443
    password: secret
  - name: my-vmess
    type: vmess
    server: vmess.example.com
    port: 8080
    uuid: b831381d-6324-4d53-ad4f-8cda48b30811
    alterId: 0
    network: ws
    ws-path: /ray
proxy-groups:
  - name: main
    proxies: [my-trojan, my-vmess]
`)

	cfg, err := UnmarshalFile(path)
	require.NoError(t, err)

	assert.Equal(t, 1080, cfg.SocksPort)
	assert.Equal(t, "main", cfg.RoutingGroup)
	require.Len(t, cfg.Handlers, 2)
	assert.Equal(t, "my-trojan", cfg.Handlers[0].Name())
	assert.Equal(t, "my-vmess", cfg.Handlers[1].Name())
	require.Len(t, cfg.ProxyGroups, 1)
	assert.Equal(t, []string{"my-trojan", "my-vmess"}, cfg.ProxyGroups[0].Proxies)
}

func TestUnmarshalFileUnknownTypeBecomesReject(t *testing.T) {
	path := writeTempConfig(t, `
socks-port: 1080
routing-group: main
proxies:
  - name: mystery
    type: shadowsocks
proxy-groups:
  - name: main
    proxies: [mystery]
`)

	cfg, err := UnmarshalFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Handlers, 1)
	assert.Equal(t, outbound.RejectName, cfg.Handlers[0].Name())
}

func TestUnmarshalFileDefaultsSocksPort(t *testing.T) {
	path := writeTempConfig(t, `
routing-group: main
`)
	cfg, err := UnmarshalFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSocksPort, cfg.SocksPort)
}

func TestUnmarshalFileRequiresRoutingGroup(t *testing.T) {
	path := writeTempConfig(t, `
socks-port: 1080
`)
	_, err := UnmarshalFile(path)
	assert.Error(t, err)
}

func TestUnmarshalFileRejectsInvalidVmessUUID(t *testing.T) {
	path := writeTempConfig(t, `
socks-port: 1080
routing-group: main
proxies:
  - name: bad-vmess
    type: vmess
    server: vmess.example.com
    port: 8080
    uuid: not-a-uuid
    network: ws
`)
	_, err := UnmarshalFile(path)
	assert.Error(t, err)
}

func TestUnmarshalFileMissingFile(t *testing.T) {
	_, err := UnmarshalFile("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}
