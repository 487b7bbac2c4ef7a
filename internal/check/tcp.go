package check

import (
	"context"
	"fmt"
	"net"
)

type tcpCheck struct {
	addr string
}

// TCP returns a Checker that succeeds once a TCP connection to addr
// (host:port) can be established. It confirms the port is accepting
// connections and nothing more.
func TCP(addr string) Checker {
	return tcpCheck{addr: addr}
}

func (t tcpCheck) Check(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.addr, err)
	}
	conn.Close()
	return nil
}
