package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// AuthorizerPingTimeout bounds the reachability check made before the Authorizer client is created.
const AuthorizerPingTimeout = 1500 * time.Millisecond

// dialAddress turns a service URL, or a bare host:port, into a dialable address.
func dialAddress(serviceURL string) (string, error) {
	if !strings.Contains(serviceURL, "://") {
		serviceURL = "tcp://" + serviceURL
	}
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		return "", fmt.Errorf("invalid URL: no host in %q", serviceURL)
	}

	port := parsedURL.Port()
	if port == "" {
		switch parsedURL.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	return net.JoinHostPort(host, port), nil
}

// PingServiceContext checks that a TCP connection to the service can be opened before ctx ends.
func PingServiceContext(ctx context.Context, serviceURL string) error {
	address, err := dialAddress(serviceURL)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}

// PingService checks if a service is reachable at the given URL
func PingService(serviceURL string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return PingServiceContext(ctx, serviceURL)
}

// PingAuthorizer checks if the Authorizer service is reachable
func PingAuthorizer(authzURL string) error {
	return PingService(authzURL, AuthorizerPingTimeout)
}
