package outbound

import (
	"context"
	"fmt"
	"net"

	"github.com/gofrs/uuid"

	vmesstransport "github.com/trojan-gate/trojan-gate/transport/vmess"
)

// VmessOption is the immutable configuration for one VMess outbound.
// Only network "ws" is supported; any other value fails at construction.
type VmessOption struct {
	Name    string
	Server  string
	Port    uint16
	UUID    string
	AlterID uint16
	Network string // must be "ws"
	WSPath  string
	WSHost  string // overrides the upgrade request's Host header
}

// Vmess opens a WebSocket transport to its configured server and runs
// the AEAD or legacy VMess handshake (selected by AlterID) over it.
type Vmess struct {
	*Base
	option *VmessOption
	client *vmesstransport.Client
}

func NewVmess(option VmessOption) (*Vmess, error) {
	if option.Network != "ws" {
		return nil, fmt.Errorf("vmess %s: unsupported network %q, only \"ws\" is supported", option.Name, option.Network)
	}

	id, err := uuid.FromString(option.UUID)
	if err != nil {
		return nil, fmt.Errorf("vmess %s: invalid uuid: %w", option.Name, err)
	}

	return &Vmess{
		Base:   &Base{name: option.Name},
		option: &option,
		client: vmesstransport.NewClient(vmesstransport.Config{
			UUID:    id,
			AlterID: option.AlterID,
		}),
	}, nil
}

// Connect implements Handler. It is documented experimental per spec
// §9.2/SPEC_FULL.md §4.2.3: response bytes from the server are forwarded
// verbatim, with no response decryption or integrity verification.
func (v *Vmess) Connect(ctx context.Context, host string, port uint16) (net.Conn, error) {
	path := v.option.WSPath
	if path == "" {
		path = "/"
	}

	stream, err := vmesstransport.DialWebsocket(vmesstransport.WebsocketConfig{
		Server: v.option.Server,
		Port:   v.option.Port,
		Path:   path,
		Host:   v.option.WSHost,
	})
	if err != nil {
		return nil, err
	}

	if err := v.client.Handshake(stream, host, port); err != nil {
		_ = stream.Close()
		return nil, err
	}

	return stream, nil
}
