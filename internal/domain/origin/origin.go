// Package origin resolves the speed-checker API origin for the side of the
// wire a URL is built for.
package origin

import (
	"strings"
)

// Fallback origins used when the corresponding setting is absent or empty.
const (
	// DefaultServer points at the API container on the internal Docker network.
	DefaultServer = "http://speed-checker-api:8080"
	// DefaultBrowser is the API as seen from a developer's browser.
	DefaultBrowser = "http://localhost:8080"
)

// Side selects which origin to use.
type Side int

const (
	// Server is the server-side rendering context.
	Server Side = iota
	// Browser is client-side code running in the user's browser.
	Browser
)

func (s Side) String() string {
	switch s {
	case Server:
		return "server"
	case Browser:
		return "browser"
	default:
		return "unknown"
	}
}

// Resolver holds the configured origins. The zero value resolves to the defaults.
type Resolver struct {
	server  string
	browser string
}

// New builds a Resolver from the private (server) and public (browser) settings.
// Blank settings fall back to DefaultServer and DefaultBrowser.
func New(server, browser string) Resolver {
	return Resolver{
		server:  strings.TrimSpace(server),
		browser: strings.TrimSpace(browser),
	}
}

// Origin returns the scheme+host+port for side.
func (r Resolver) Origin(side Side) string {
	if side == Browser {
		if r.browser != "" {
			return r.browser
		}
		return DefaultBrowser
	}
	if r.server != "" {
		return r.server
	}
	return DefaultServer
}

// ServerURL joins the server origin and path. path is used verbatim and
// should start with "/".
func (r Resolver) ServerURL(path string) string {
	return r.Origin(Server) + path
}

// BrowserURL joins the browser origin and path verbatim.
func (r Resolver) BrowserURL(path string) string {
	return r.Origin(Browser) + path
}
