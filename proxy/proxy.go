package proxy

import (
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Proxy forwards every accepted TCP connection to a single fixed remote
// address.
type Proxy struct {
	lst  net.Listener
	rmt  string
	bfsz int
	log  logrus.FieldLogger
}

const (
	errListener   = "unable to listen"
	errRemoteConn = "unable to establish remote connection"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Init binds laddr:lport and returns a Proxy that forwards to raddr:rport.
// Copy buffers are bfsz bytes long.
func Init(laddr, lport, raddr, rport string, bfsz int, log logrus.FieldLogger) (*Proxy, error) {
	if bfsz <= 0 {
		bfsz = DefaultBufferSize
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	p := Proxy{
		rmt:  net.JoinHostPort(raddr, rport),
		bfsz: bfsz,
		log:  log,
	}

	var err error
	p.lst, err = net.Listen("tcp", net.JoinHostPort(laddr, lport))
	if err != nil {
		return nil, errors.Wrap(err, errListener)
	}

	return &p, nil
}

// Addr returns the bound listening address.
func (p *Proxy) Addr() net.Addr {
	return p.lst.Addr()
}

// Remote returns the destination every connection is forwarded to.
func (p *Proxy) Remote() string {
	return p.rmt
}

// Close releases the listening socket. Sessions already running are not
// affected.
func (p *Proxy) Close() error {
	return p.lst.Close()
}

// ListenAndServe accepts connections until the listener is closed. Accept
// failures are logged and retried after a short delay.
func (p *Proxy) ListenAndServe() error {
	log := p.log.WithField("listen", p.lst.Addr().String())

	var delay time.Duration
	for {
		c, err := p.lst.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			if delay == 0 {
				delay = minAcceptDelay
			} else if delay *= 2; delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			log.WithError(err).Warnf("accept failed, retrying in %v", delay)
			time.Sleep(delay)
			continue
		}
		delay = 0
		go p.handleConn(c)
	}
}

func (p *Proxy) handleConn(src net.Conn) {
	log := p.log.WithFields(logrus.Fields{
		"client":      src.RemoteAddr().String(),
		"destination": p.rmt,
	})

	dst, err := net.Dial("tcp", p.rmt)
	if err != nil {
		src.Close()
		log.WithError(errors.Wrap(err, errRemoteConn)).Warn("dial failed")
		return
	}
	log.Info("connection established")

	if err := relay(src, dst, p.bfsz); err != nil {
		log.WithError(err).Info("connection closed")
		return
	}
	log.Info("connection closed")
}
