package outbound

import (
	"context"
	"io"
	"net"
	"time"
)

// Reject is a supplemented no-op sink (see SPEC_FULL.md §4.2): it never
// reaches the network and every read/write on the returned conn fails
// with io.EOF immediately.
type Reject struct {
	*Base
}

func NewReject() *Reject {
	return &Reject{Base: &Base{name: RejectName}}
}

// Connect implements Handler.
func (r *Reject) Connect(ctx context.Context, host string, port uint16) (net.Conn, error) {
	return &nopConn{}, nil
}

type nopConn struct{}

func (nopConn) Read([]byte) (int, error)  { return 0, io.EOF }
func (nopConn) Write([]byte) (int, error) { return 0, io.EOF }
func (nopConn) Close() error              { return nil }
func (nopConn) LocalAddr() net.Addr       { return nil }
func (nopConn) RemoteAddr() net.Addr      { return nil }

func (nopConn) SetDeadline(time.Time) error      { return nil }
func (nopConn) SetReadDeadline(time.Time) error  { return nil }
func (nopConn) SetWriteDeadline(time.Time) error { return nil }

var _ net.Conn = nopConn{}
