package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const usage = "Usage: fwd -p [listening_port] -d [destination_host:destination_port]"

var (
	errUsage       = errors.New(usage)
	errDestination = errors.New("invalid destination format, use [host]:[port]")
)

// portValue is a pflag.Value that only accepts decimal port numbers.
type portValue uint16

func (p *portValue) Set(s string) error {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return err
	}
	*p = portValue(v)
	return nil
}

func (p *portValue) String() string { return strconv.Itoa(int(*p)) }

func (p *portValue) Type() string { return "port" }

type config struct {
	lport string
	raddr string
	rport string
}

// parseArgs accepts exactly "-p PORT -d HOST:PORT" in that order.
func parseArgs(args []string) (*config, error) {
	if len(args) != 4 || args[0] != "-p" || args[2] != "-d" {
		return nil, errUsage
	}

	fs := pflag.NewFlagSet("fwd", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var port portValue
	fs.VarP(&port, "port", "p", "listening port")
	dest := fs.StringP("destination", "d", "", "destination host:port")
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "invalid listening port")
	}
	if fs.NArg() != 0 {
		return nil, errUsage
	}

	parts := strings.Split(*dest, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errDestination
	}

	return &config{
		lport: port.String(),
		raddr: parts[0],
		rport: parts[1],
	}, nil
}
