package mailbox

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/mhoward/mailscope/internal/config"
)

// Session is an authenticated handle to one mailbox account. It is not safe
// for concurrent use; every operation owns the connection for its duration.
type Session struct {
	Host     string
	Port     int
	Address  string
	Strategy string

	tr       Transport
	sink     Sink
	selected string
	alive    bool
	pause    func(time.Duration)
}

type ConnectOptions struct {
	Address string
	Secret  string
	Server  string // optional; derived from the address domain when empty
	Port    int    // optional; defaults to 993
	Sink    Sink   // optional
}

// ConnectError reports that every connection strategy failed. Attempts
// holds one summary per strategy, in the order they were tried.
type ConnectError struct {
	Host     string
	Attempts []string
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("could not connect to %s: %s", e.Host, strings.Join(e.Attempts, "; "))
}

// strategy pairs a diagnostic name with one dial attempt. Strategies are
// tried in order, each exactly once.
type strategy struct {
	name string
	dial func() (Transport, error)
}

// Connect tries TLS on the configured port, TLS with an explicit config,
// and finally STARTTLS on port 143, authenticating after each successful
// dial. The first strategy that connects and logs in wins.
func Connect(opts ConnectOptions) (*Session, error) {
	if opts.Port == 0 {
		opts.Port = config.DefaultIMAPPort
	}

	host := opts.Server
	if host == "" {
		host = config.IMAPHost(opts.Address)
	}
	if host == "" {
		return nil, fmt.Errorf("cannot derive IMAP server from address %q - set one explicitly", opts.Address)
	}

	return negotiate(opts, host, dialStrategies(host, opts.Port))
}

func dialStrategies(host string, port int) []strategy {
	addr := fmt.Sprintf("%s:%d", host, port)
	plainAddr := fmt.Sprintf("%s:143", host)

	strict := &imapclient.Options{
		TLSConfig: &tls.Config{
			ServerName: host,
			MinVersion: tls.VersionTLS12,
		},
	}

	return []strategy{
		{
			name: fmt.Sprintf("port %d TLS", port),
			dial: func() (Transport, error) {
				c, err := imapclient.DialTLS(addr, nil)
				if err != nil {
					return nil, err
				}
				return &imapTransport{c: c}, nil
			},
		},
		{
			name: fmt.Sprintf("port %d TLS (strict config)", port),
			dial: func() (Transport, error) {
				c, err := imapclient.DialTLS(addr, strict)
				if err != nil {
					return nil, err
				}
				return &imapTransport{c: c}, nil
			},
		},
		{
			name: "port 143 STARTTLS",
			dial: func() (Transport, error) {
				c, err := imapclient.DialStartTLS(plainAddr, strict)
				if err != nil {
					return nil, err
				}
				return &imapTransport{c: c}, nil
			},
		},
	}
}

func negotiate(opts ConnectOptions, host string, strategies []strategy) (*Session, error) {
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}

	var attempts []string
	for _, st := range strategies {
		tr, err := st.dial()
		if err != nil {
			attempts = append(attempts, fmt.Sprintf("%s: %v", st.name, err))
			sink.Logf("connect via %s failed: %v", st.name, err)
			continue
		}

		if err := tr.Login(opts.Address, opts.Secret); err != nil {
			tr.Logout()
			attempts = append(attempts, fmt.Sprintf("%s: login failed: %v", st.name, err))
			sink.Logf("login via %s failed: %v", st.name, err)
			continue
		}

		sink.Logf("connected to %s via %s", host, st.name)
		return &Session{
			Host:     host,
			Port:     opts.Port,
			Address:  opts.Address,
			Strategy: st.name,
			tr:       tr,
			sink:     sink,
			alive:    true,
			pause:    time.Sleep,
		}, nil
	}

	return nil, &ConnectError{Host: host, Attempts: attempts}
}

// Disconnect logs out and drops the connection. Safe to call any number of
// times, including on a nil session.
func (s *Session) Disconnect() {
	if s == nil || !s.alive {
		return
	}
	s.alive = false
	s.tr.Logout()
}

// Alive reports whether the session still holds its connection.
func (s *Session) Alive() bool {
	return s != nil && s.alive
}

// selectFolder always re-issues SELECT: folder selection is server-side
// session state and must not be assumed to persist across operations.
func (s *Session) selectFolder(name string) (uint32, error) {
	n, err := s.tr.Select(name)
	if err != nil {
		return 0, err
	}
	s.selected = name
	return n, nil
}
