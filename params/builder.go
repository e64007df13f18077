package params

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Builder provides a fluent interface for assembling endpoint parameters
// and their URI representation.
type Builder struct {
	p *Parameters
}

// NewBuilder creates a new parameters builder for the given scheme.
func NewBuilder(scheme string) *Builder {
	return &Builder{p: New(scheme)}
}

// Auth sets username and password.
func (b *Builder) Auth(username, password string) *Builder {
	b.p.Username = username
	b.p.Password = password
	return b
}

// Host sets the host and port.
func (b *Builder) Host(host string, port int) *Builder {
	b.p.Host = host
	b.p.Port = port
	return b
}

// Socket sets the unix socket path.
func (b *Builder) Socket(path string) *Builder {
	b.p.Path = path
	return b
}

// Database sets the target database index.
func (b *Builder) Database(index int) *Builder {
	b.p.Database = index
	return b
}

// Timeout sets the connect timeout.
func (b *Builder) Timeout(d time.Duration) *Builder {
	b.p.ConnectTimeout = d
	return b
}

// Option adds a single extra option.
func (b *Builder) Option(key, value string) *Builder {
	if value != "" {
		b.p.Options[key] = value
	}
	return b
}

// Options adds multiple extra options.
func (b *Builder) Options(opts map[string]string) *Builder {
	for k, v := range opts {
		if v != "" {
			b.p.Options[k] = v
		}
	}
	return b
}

func (b *Builder) Validate() error {
	return b.p.Validate()
}

// Build returns the assembled parameters. The builder must not be reused
// afterwards; the returned bag is handed over as-is.
func (b *Builder) Build() *Parameters {
	return b.p
}

// String constructs the URI form of the parameters being built.
func (b *Builder) String() string {
	var uri strings.Builder
	p := b.p

	uri.WriteString(p.Scheme)
	uri.WriteString("://")

	if p.Username != "" || p.Password != "" {
		uri.WriteString(url.QueryEscape(p.Username))
		if p.Password != "" {
			uri.WriteString(":")
			uri.WriteString(url.QueryEscape(p.Password))
		}
		uri.WriteString("@")
	}

	if p.Scheme == "unix" {
		uri.WriteString(p.Path)
	} else {
		uri.WriteString(p.Host)
		if p.Port > 0 {
			uri.WriteString(":")
			uri.WriteString(strconv.Itoa(p.Port))
		}
	}

	if p.HasDatabase() && p.Scheme != "unix" {
		uri.WriteString("/")
		uri.WriteString(strconv.Itoa(p.Database))
	}

	if len(p.Options) > 0 {
		uri.WriteString("?")
		first := true
		for key, value := range p.Options {
			if !first {
				uri.WriteString("&")
			}
			uri.WriteString(url.QueryEscape(key))
			uri.WriteString("=")
			uri.WriteString(url.QueryEscape(value))
			first = false
		}
	}

	return uri.String()
}
