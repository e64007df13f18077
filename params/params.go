package params

import (
	"fmt"
	"time"
)

// NoDatabase marks an absent target database index. SELECT is only
// enqueued for indexes >= 0, so database 0 stays explicitly selectable.
const NoDatabase = -1

// Parameters represents a normalized description of a single endpoint.
// The caller owns it up to the point it is handed to a constructed
// connection, which then owns it for its lifetime.
type Parameters struct {
	Scheme         string            `json:"scheme" yaml:"scheme"`
	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Path           string            `json:"path,omitempty" yaml:"path,omitempty"`
	Username       string            `json:"username,omitempty" yaml:"username,omitempty"`
	Password       string            `json:"password,omitempty" yaml:"password,omitempty"`
	Database       int               `json:"database" yaml:"database"`
	Options        map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout"`
}

// New returns a Parameters with the unset-database marker in place.
func New(scheme string) *Parameters {
	return &Parameters{
		Scheme:   scheme,
		Database: NoDatabase,
		Options:  make(map[string]string),
	}
}

// HasCredential reports whether an authentication credential is present.
func (p *Parameters) HasCredential() bool {
	return p.Password != ""
}

// HasDatabase reports whether a target database index is present.
func (p *Parameters) HasDatabase() bool {
	return p.Database >= 0
}

// Address returns the dialable address for the endpoint: host:port for
// network schemes, the socket path for unix.
func (p *Parameters) Address() string {
	if p.Scheme == "unix" {
		return p.Path
	}
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// Option returns the extra option for key and whether it was set.
func (p *Parameters) Option(key string) (string, bool) {
	v, ok := p.Options[key]
	return v, ok
}

// Clone returns an independent copy, including the options map.
func (p *Parameters) Clone() *Parameters {
	cp := *p
	if p.Options != nil {
		cp.Options = make(map[string]string, len(p.Options))
		for k, v := range p.Options {
			cp.Options[k] = v
		}
	}
	return &cp
}

func (p *Parameters) Validate() error {
	if p.Scheme == "" {
		return fmt.Errorf("scheme is required")
	}
	if p.Scheme == "unix" {
		if p.Path == "" {
			return fmt.Errorf("socket path is required for unix scheme")
		}
		return nil
	}
	if p.Host == "" {
		return fmt.Errorf("host is required")
	}
	if p.Port <= 0 || p.Port > 65535 {
		return fmt.Errorf("invalid port: %d", p.Port)
	}
	return nil
}
