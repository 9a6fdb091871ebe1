package proxy

import (
	"io"
	"net"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	errInvalidWrite = errors.New("invalid write result")
	errShortWrite   = errors.New("short write")
)

type closeWriter interface {
	CloseWrite() error
}

// relay copies between src and dst in both directions until each direction
// has ended, then closes both connections. A finished direction half-closes
// its destination and leaves the opposite direction running. The first
// direction error, if any, is returned.
func relay(src, dst net.Conn, bfsz int) error {
	defer src.Close()
	defer dst.Close()

	var g errgroup.Group
	g.Go(func() error {
		return errors.Wrap(pipe(dst, src, bfsz), "client to remote")
	})
	g.Go(func() error {
		return errors.Wrap(pipe(src, dst, bfsz), "remote to client")
	})
	return g.Wait()
}

func pipe(dst, src net.Conn, bfsz int) error {
	err := copyData(dst, src, bfsz)
	if cw, ok := dst.(closeWriter); ok {
		cw.CloseWrite()
	}
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// copyData moves bytes from src to dst until src reports EOF or either side
// fails. A clean EOF yields nil.
func copyData(dst io.Writer, src io.Reader, bfsz int) error {
	bb := acquireBuffer(bfsz)
	defer releaseBuffer(bb)
	buf := *bb

	for {
		nr, er := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.Write(buf[:nr])
			if nw < 0 || nr < nw {
				nw = 0
				if ew == nil {
					ew = errInvalidWrite
				}
			}
			if ew != nil {
				return ew
			}
			if nr != nw {
				return errShortWrite
			}
		}
		if er != nil {
			if er == io.EOF {
				return nil
			}
			return er
		}
	}
}
