// Package discovery finds relays on the local network over mDNS.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service a relay advertises.
const ServiceType = "_drawboard._tcp"

// ErrNotFound is returned by Lookup when no relay answered in time.
var ErrNotFound = errors.New("no relay found")

// Advertise announces a relay listening on port. Shut the returned server down
// to withdraw the announcement.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, []string{"drawboard relay"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Lookup returns the host:port of the first relay that answers within
// timeout.
func Lookup(ctx context.Context, timeout time.Duration) (string, error) {
	return lookup(ctx, timeout, mdns.Query)
}

func lookup(ctx context.Context, timeout time.Duration, query func(*mdns.QueryParam) error) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for e := range entries {
			if addr, ok := entryAddr(e); ok {
				select {
				case found <- addr:
				default:
				}
			}
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	errc := make(chan error, 1)
	go func() {
		errc <- query(params)
		close(entries)
	}()

	select {
	case addr := <-found:
		return addr, nil
	case err := <-errc:
		// entries answered before the query returned still count
		<-drained
		select {
		case addr := <-found:
			return addr, nil
		default:
		}
		if err != nil {
			return "", fmt.Errorf("mdns query: %w", err)
		}
		return "", ErrNotFound
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func entryAddr(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.Port == 0 {
		return "", false
	}
	switch {
	case e.AddrV4 != nil:
		return net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port)), true
	case e.AddrV6 != nil:
		return net.JoinHostPort(e.AddrV6.String(), strconv.Itoa(e.Port)), true
	}
	return "", false
}
