package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/celestiaorg/whitebox/internal/logger"
)

// DefaultPort is used when no port option is given.
const DefaultPort = "22"

// Client implements the Runner interface for real SSH connections.
type Client struct {
	Host       string
	Port       string
	User       string
	Password   string
	PrivateKey []byte
	Timeout    time.Duration
}

// Option customizes a Client.
type Option func(*Client) error

// WithPort overrides the default SSH port.
func WithPort(port string) Option {
	return func(c *Client) error {
		c.Port = port
		return nil
	}
}

// WithPrivateKey authenticates with the given PEM-encoded private key.
func WithPrivateKey(key []byte) Option {
	return func(c *Client) error {
		c.PrivateKey = key
		return nil
	}
}

// WithPrivateKeyFile reads a PEM-encoded private key from path.
func WithPrivateKeyFile(path string) Option {
	return func(c *Client) error {
		if path == "" {
			return nil
		}
		key, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read private key: %w", err)
		}
		c.PrivateKey = key
		return nil
	}
}

// NewClient creates a new SSH client. Password may be empty when a private key
// option is supplied.
func NewClient(host, user, password string, timeout time.Duration, opts ...Option) (*Client, error) {
	c := &Client{
		Host:     host,
		Port:     DefaultPort,
		User:     user,
		Password: password,
		Timeout:  timeout,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.Password == "" && len(c.PrivateKey) == 0 {
		return nil, fmt.Errorf("either a password or a private key is required for %s@%s", user, host)
	}
	return c, nil
}

// Connect builds a client and verifies it can authenticate, returning
// ErrSSHTimeout otherwise.
func Connect(ctx context.Context, host, user, password string, timeout time.Duration, opts ...Option) (*Client, error) {
	c, err := NewClient(host, user, password, timeout, opts...)
	if err != nil {
		return nil, err
	}
	if !c.TestConnectionAuth(ctx) {
		return nil, fmt.Errorf("%w: %s@%s after %s", ErrSSHTimeout, user, c.Addr(), timeout)
	}
	return c, nil
}

// Addr returns host:port.
func (c *Client) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Client) clientConfig() (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod
	if len(c.PrivateKey) > 0 {
		signer, err := ssh.ParsePrivateKey(c.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("unable to parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if c.Password != "" {
		password := c.Password
		auth = append(auth,
			ssh.Password(password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		)
	}

	return &ssh.ClientConfig{
		User:            c.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // test hosts are rebuilt constantly
		Timeout:         c.Timeout,
	}, nil
}

func (c *Client) dial(ctx context.Context) (*ssh.Client, error) {
	config, err := c.clientConfig()
	if err != nil {
		return nil, err
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	addr := c.Addr()
	var d net.Dialer
	netConn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = netConn.SetDeadline(deadline)
	}

	conn, chans, reqs, err := ssh.NewClientConn(netConn, addr, config)
	if err != nil {
		_ = netConn.Close()
		return nil, fmt.Errorf("unable to establish SSH connection to %s: %w", addr, err)
	}
	_ = netConn.SetDeadline(time.Time{})
	return ssh.NewClient(conn, chans, reqs), nil
}

// TestConnectionAuth reports whether a single connection attempt authenticates.
func (c *Client) TestConnectionAuth(ctx context.Context) bool {
	conn, err := c.dial(ctx)
	if err != nil {
		logger.WarnWithFields("SSH connection check failed", map[string]interface{}{
			"addr":  c.Addr(),
			"user":  c.User,
			"error": err.Error(),
		})
		return false
	}
	runFuncAndLogErr(conn.Close)
	return true
}

// Exec runs cmd on the remote host and returns its output. A non-zero exit
// status yields *CommandError.
func (c *Client) Exec(ctx context.Context, cmd string) (stdout, stderr string, err error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return "", "", err
	}
	defer runFuncAndLogErr(conn.Close)

	session, err := conn.NewSession()
	if err != nil {
		return "", "", fmt.Errorf("unable to create SSH session: %w", err)
	}
	defer runFuncAndLogErr(session.Close)

	var stdoutBuf, stderrBuf bytes.Buffer
	session.Stdout = &stdoutBuf
	session.Stderr = &stderrBuf

	logger.Debugf("Executing remote command: addr=%s, cmd=%s", c.Addr(), cmd)

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd) }()

	select {
	case <-ctx.Done():
		_ = conn.Close()
		// the session copies output until Run returns
		<-done
		return stdoutBuf.String(), stderrBuf.String(), fmt.Errorf("remote command interrupted: %w", ctx.Err())
	case err = <-done:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return stdoutBuf.String(), stderrBuf.String(), &CommandError{
				Command:    cmd,
				ExitStatus: exitErr.ExitStatus(),
				Stderr:     stderrBuf.String(),
				Err:        err,
			}
		}
		return stdoutBuf.String(), stderrBuf.String(), fmt.Errorf("remote command failed: %w", err)
	}

	return stdoutBuf.String(), stderrBuf.String(), nil
}

// AwaitServer polls every interval until the SSH server accepts authentication
// or ctx is done.
func (c *Client) AwaitServer(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		if c.TestConnectionAuth(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: waiting for %s", ErrSSHTimeout, c.Addr())
		case <-tick.C:
		}
	}
}

func runFuncAndLogErr(f func() error) {
	if err := f(); err != nil && !errors.Is(err, net.ErrClosed) {
		logger.Debugf("error closing ssh session or connection: %v", err)
	}
}
