package server

import "errors"

// ErrNoFallback is returned by StaticDiscovery when no fallback server is configured.
var ErrNoFallback = errors.New("server: no fallback server configured")

// Discovery defines an interface for discovering servers based on a client's connection.
type Discovery interface {
	// Discover determines the primary server for the client at clientAddr.
	Discover(clientAddr string) (string, error)
	// DiscoverFallback determines the server a client is moved to when its server goes away.
	DiscoverFallback(clientAddr string) (string, error)
}

// StaticDiscovery implements the Discovery interface with static server addresses.
type StaticDiscovery struct {
	server         string
	fallbackServer string
}

// NewStaticDiscovery creates a new StaticDiscovery with the given server addresses.
func NewStaticDiscovery(server string, fallbackServer string) *StaticDiscovery {
	return &StaticDiscovery{
		server:         server,
		fallbackServer: fallbackServer,
	}
}

// Discover ...
func (s *StaticDiscovery) Discover(_ string) (string, error) {
	return s.server, nil
}

// DiscoverFallback returns the fallback server, or ErrNoFallback if there is none.
func (s *StaticDiscovery) DiscoverFallback(_ string) (string, error) {
	if s.fallbackServer == "" {
		return "", ErrNoFallback
	}
	return s.fallbackServer, nil
}
