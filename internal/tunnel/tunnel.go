// Package tunnel opens database connections through an SSH bastion host.
//
// A Dialer satisfies both the MongoDB driver's ContextDialer and pgx's
// DialFunc, so any store can be reached through the same tunnel.
package tunnel

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Config describes the bastion host and how to authenticate against it
type Config struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password,omitempty"`
	PrivateKeyPath string        `yaml:"private_key_path,omitempty"`
	Passphrase     string        `yaml:"passphrase,omitempty"`
	KnownHostsPath string        `yaml:"known_hosts_path,omitempty"`
	Timeout        time.Duration `yaml:"-"`
}

// Dialer forwards connections through an established SSH client
type Dialer struct {
	client *ssh.Client
}

// Open connects to the bastion host
func Open(ctx context.Context, cfg Config) (*Dialer, error) {
	sshConfig, err := buildSSHConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build SSH config: %w", err)
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))

	dialer := &net.Dialer{Timeout: sshConfig.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish SSH connection: %w", err)
	}

	log.Printf("tunnel: connected to %s as %s", addr, cfg.User)
	return &Dialer{client: ssh.NewClient(sshConn, chans, reqs)}, nil
}

// DialContext opens a connection to addr from the bastion host
func (d *Dialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := d.client.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("tunnel dial %s: %w", addr, err)
	}
	return conn, nil
}

// Close tears down the SSH connection and every forwarded connection
func (d *Dialer) Close() error {
	return d.client.Close()
}

// buildSSHConfig picks key or password authentication, preferring the key
func buildSSHConfig(cfg Config) (*ssh.ClientConfig, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("tunnel host is required")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("tunnel user is required")
	}

	var auth ssh.AuthMethod
	switch {
	case cfg.PrivateKeyPath != "":
		signer, err := loadSigner(cfg.PrivateKeyPath, cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		auth = ssh.PublicKeys(signer)
	case cfg.Password != "":
		auth = ssh.Password(cfg.Password)
	default:
		return nil, fmt.Errorf("tunnel needs a private key or a password")
	}

	hostKeyCallback, err := hostKeyCallback(cfg.KnownHostsPath)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}, nil
}

func loadSigner(path, passphrase string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	var signer ssh.Signer
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(data, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return signer, nil
}

func hostKeyCallback(knownHostsPath string) (ssh.HostKeyCallback, error) {
	if knownHostsPath == "" {
		log.Printf("tunnel: no known_hosts file configured, host key is not verified")
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts: %w", err)
	}
	return cb, nil
}
