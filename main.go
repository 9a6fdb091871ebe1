package main

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/michalslomczynski/fwd/proxy"
)

const laddr = "0.0.0.0"

func newRootCmd(log logrus.FieldLogger) *cobra.Command {
	return &cobra.Command{
		Use:                strings.TrimPrefix(usage, "Usage: "),
		Short:              "Forward TCP connections to a fixed destination",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := parseArgs(args)
			if err != nil {
				return err
			}

			px, err := proxy.Init(laddr, cfg.lport, cfg.raddr, cfg.rport, proxy.DefaultBufferSize, log)
			if err != nil {
				return err
			}
			_, port, _ := net.SplitHostPort(px.Addr().String())
			log.Infof("listening on port %s and forwarding to %s", port, px.Remote())

			return px.ListenAndServe()
		},
	}
}

func main() {
	log := logrus.New()
	log.Out = os.Stderr
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}

	if err := newRootCmd(log).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
