package ssh

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/imamik/robotpool/internal/util/retry"
)

const dialTimeout = 10 * time.Second

// Client is a Communicator over the SSH protocol. It dials lazily on
// each Run and bounds the whole connection phase by connectTimeout, so
// a machine still rebooting into rescue is given time to come up
// without hanging the run forever.
type Client struct {
	host           string
	user           string
	privateKey     []byte
	connectTimeout time.Duration
}

// NewClient creates an SSH client for host. privateKey is a PEM-encoded
// key accepted by the rescue system. connectTimeout bounds how long the
// initial connection may take overall, across dial retries.
func NewClient(host, user string, privateKey []byte, connectTimeout time.Duration) *Client {
	return &Client{
		host:           host,
		user:           user,
		privateKey:     privateKey,
		connectTimeout: connectTimeout,
	}
}

// Run connects to the server and executes command, returning its
// combined stdout and stderr.
func (c *Client) Run(ctx context.Context, command string) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session on %s: %w", c.host, err)
	}
	defer session.Close()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return string(output), fmt.Errorf("command failed on %s: %w, output: %s", c.host, err, output)
	}
	return string(output), nil
}

func (c *Client) connect(ctx context.Context) (*ssh.Client, error) {
	signer, err := ssh.ParsePrivateKey(c.privateKey)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to parse private key: %w", err))
	}

	config := &ssh.ClientConfig{
		User:            c.user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // rescue systems have throwaway host keys
		Timeout:         dialTimeout,
	}

	connectCtx := ctx
	if c.connectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, c.connectTimeout)
		defer cancel()
	}

	var client *ssh.Client
	err = retry.SlowPolicy.Do(connectCtx, func() error {
		var dialErr error
		client, dialErr = ssh.Dial("tcp", net.JoinHostPort(c.host, "22"), config)
		return dialErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s within %s: %w", c.host, c.connectTimeout, err)
	}
	return client, nil
}
