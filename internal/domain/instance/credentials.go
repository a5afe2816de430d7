package instance

import (
	"net"
	"strings"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// Credentials holds the SSH identity and the encrypted secrets for an
// instance. Passwords are stored encrypted and resolved just-in-time by a
// SecretResolver; the plaintext never lives on the aggregate.
type Credentials struct {
	host                string
	port                int
	username            string
	encryptedPassword   string
	encryptedDBPassword string
}

func NewCredentials(host string, port int, username, encryptedPassword, encryptedDBPassword string) (Credentials, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return Credentials{}, errors.NewValidationError("instance host is required")
	}
	if ip := net.ParseIP(host); ip == nil {
		// Not an IP literal; require something hostname-shaped.
		if strings.ContainsAny(host, " \t") {
			return Credentials{}, errors.NewValidationError("instance host must not contain whitespace")
		}
	}
	if port <= 0 || port > 65535 {
		return Credentials{}, errors.NewValidationError("instance SSH port is out of range")
	}
	if username == "" {
		return Credentials{}, errors.NewValidationError("instance SSH username is required")
	}
	return Credentials{
		host:                host,
		port:                port,
		username:            username,
		encryptedPassword:   encryptedPassword,
		encryptedDBPassword: encryptedDBPassword,
	}, nil
}

func (c Credentials) Host() string                { return c.host }
func (c Credentials) Port() int                   { return c.port }
func (c Credentials) Username() string            { return c.username }
func (c Credentials) EncryptedPassword() string   { return c.encryptedPassword }
func (c Credentials) EncryptedDBPassword() string { return c.encryptedDBPassword }

// SecretResolver decrypts stored secrets just-in-time. Implementations must
// return a secret-unavailable error on any decryption failure; an empty
// string is never an acceptable fallback.
type SecretResolver interface {
	Resolve(encrypted string) (string, error)
}
