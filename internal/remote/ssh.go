/*
 * SSH - executor for a name server reached through SSH.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	defaultSSHPort        = 22
	defaultConnectTimeout = 10 * time.Second
)

// safeWord matches the arguments that need no shell quoting.
var safeWord = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// SSHConfig holds the connection parameters of an SSH target. KeyPath takes
// precedence over Password.
type SSHConfig struct {
	Host     string
	Port     int
	User     string
	KeyPath  string
	Password string
	// KnownHostsFile enables host key checking. When empty any host key is
	// accepted.
	KnownHostsFile string
	ConnectTimeout time.Duration
}

// address returns "host:port".
func (c SSHConfig) address() string {
	port := c.Port
	if port == 0 {
		port = defaultSSHPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// expandHome resolves a leading "~/".
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// clientConfig builds the configuration of the SSH client.
func (c SSHConfig) clientConfig() (*ssh.ClientConfig, error) {
	var auth ssh.AuthMethod
	switch {
	case c.KeyPath != "":
		pem, err := os.ReadFile(expandHome(c.KeyPath))
		if err != nil {
			return nil, fmt.Errorf("reading ssh key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("parsing ssh key: %w", err)
		}
		auth = ssh.PublicKeys(signer)
	case c.Password != "":
		auth = ssh.Password(c.Password)
	default:
		return nil, errors.New("no authentication method configured (ssh key or password)")
	}

	hostKey := ssh.InsecureIgnoreHostKey()
	if c.KnownHostsFile != "" {
		cb, err := knownhosts.New(expandHome(c.KnownHostsFile))
		if err != nil {
			return nil, fmt.Errorf("loading known hosts: %w", err)
		}
		hostKey = cb
	} else {
		log.WithField("host", c.Host).Debug("Host key checking is disabled")
	}

	timeout := c.ConnectTimeout
	if timeout == 0 {
		timeout = defaultConnectTimeout
	}
	return &ssh.ClientConfig{
		User:            c.User,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: hostKey,
		Timeout:         timeout,
	}, nil
}

// SSHExecutor runs every operation in a new session of one SSH connection.
type SSHExecutor struct {
	client *ssh.Client
	host   string
}

// DialSSH connects to the target.
func DialSSH(ctx context.Context, cfg SSHConfig) (*SSHExecutor, error) {
	config, err := cfg.clientConfig()
	if err != nil {
		return nil, err
	}
	addr := cfg.address()
	d := net.Dialer{Timeout: config.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		if ctx.Err() != nil {
			return nil, contextError(ctx, "dial "+addr)
		}
		return nil, fmt.Errorf("dial %s: %w: %v", addr, ErrConnection, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w: %v", addr, ErrConnection, err)
	}
	_ = conn.SetDeadline(time.Time{})
	log.WithField("address", addr).Debug("SSH connection established")
	return &SSHExecutor{client: ssh.NewClient(c, chans, reqs), host: cfg.Host}, nil
}

// shellQuote quotes an argument for a POSIX shell.
func shellQuote(s string) string {
	if safeWord.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// shellCommand joins argv into a command line.
func shellCommand(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

// run executes cmd in a new session, feeding stdin when not nil.
func (e *SSHExecutor) run(ctx context.Context, cmd string, stdin io.Reader) (CommandResult, error) {
	session, err := e.client.NewSession()
	if err != nil {
		return CommandResult{}, fmt.Errorf("opening session on %s: %w: %v", e.host, ErrConnection, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if stdin != nil {
		session.Stdin = stdin
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmd)
	}()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		session.Close()
		return CommandResult{}, contextError(ctx, cmd)
	case err = <-done:
	}

	res := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *ssh.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitStatus()
	default:
		return CommandResult{}, fmt.Errorf("running %q on %s: %w: %v", cmd, e.host, ErrConnection, err)
	}
	return res, nil
}

// ReadFile implements Executor.
func (e *SSHExecutor) ReadFile(ctx context.Context, path string) ([]byte, error) {
	res, err := e.run(ctx, shellCommand([]string{"cat", "--", path}), nil)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("read %s: %w: %s", path, classifyStderr(res.Stderr), strings.TrimSpace(res.Stderr))
	}
	return []byte(res.Stdout), nil
}

// WriteFile implements Executor.
func (e *SSHExecutor) WriteFile(ctx context.Context, path string, data []byte) error {
	res, err := e.run(ctx, "cat > "+shellQuote(path), bytes.NewReader(data))
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("write %s: %w: %s", path, classifyStderr(res.Stderr), strings.TrimSpace(res.Stderr))
	}
	return nil
}

// RunCommand implements Executor.
func (e *SSHExecutor) RunCommand(ctx context.Context, argv []string) (CommandResult, error) {
	if len(argv) == 0 {
		return CommandResult{}, errors.New("empty command")
	}
	return e.run(ctx, shellCommand(argv), nil)
}

// Close implements Executor.
func (e *SSHExecutor) Close() error {
	return e.client.Close()
}
