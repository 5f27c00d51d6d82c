// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	connect     string
	certificate tls.Certificate
	verbose     bool
	e           io.Writer
	w           io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp()
	if err := app.Run(os.Args); nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "poolkeeper-cli"
	app.Usage = "operate a poolkeeperd over its JSON RPC interface"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "127.0.0.1:2150",
			Usage:  " poolkeeperd `HOST:PORT`",
			EnvVar: "POOLKEEPER_CONNECT",
		},
		cli.StringFlag{
			Name:   "certificate, C",
			Value:  "client.crt",
			Usage:  " client certificate `FILE`, its fingerprint is the caller identity",
			EnvVar: "POOLKEEPER_CERTIFICATE",
		},
		cli.StringFlag{
			Name:   "key, k",
			Value:  "client.key",
			Usage:  " client private key `FILE`",
			EnvVar: "POOLKEEPER_KEY",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "create a client certificate and key, display its fingerprint",
			ArgsUsage: "[DIR]",
			Action:    runGenerate,
		},
		{
			Name:   "info",
			Usage:  "display poolkeeperd status",
			Action: runInfo,
		},
		{
			Name:   "pools",
			Usage:  "list the pools",
			Action: runPools,
		},
		{
			Name:      "pool",
			Usage:     "display one pool",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "address, a",
					Value: "",
					Usage: "*pool `ADDRESS`",
				},
			},
			Action: runPool,
		},
		{
			Name:      "new-block",
			Usage:     "announce a block and the transactions it confirmed",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "height, b",
					Usage: "*block `HEIGHT`",
				},
				cli.StringFlag{
					Name:  "hash, H",
					Value: "",
					Usage: "*block `HASH`",
				},
				cli.Uint64Flag{
					Name:  "timestamp, t",
					Usage: " block `SECONDS` since the epoch",
				},
				cli.StringSliceFlag{
					Name:  "txid, x",
					Usage: " confirmed transaction `TXID`, may be repeated",
				},
			},
			Action: runNewBlock,
		},
		{
			Name:      "reject",
			Usage:     "drop an unconfirmed transaction",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "txid, x",
					Value: "",
					Usage: "*transaction `TXID`",
				},
				cli.StringFlag{
					Name:  "reason, r",
					Value: "",
					Usage: " reason `CODE`",
				},
			},
			Action: runReject,
		},
		{
			Name:      "execute",
			Usage:     "execute an intention and display the signatures",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "-",
					Usage: "*execute arguments as JSON `FILE`, - for stdin",
				},
			},
			Action: runExecute,
		},
		{
			Name:  "version",
			Usage: "display program version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// load the client certificate
	app.Before = func(c *cli.Context) error {

		command := c.Args().Get(0)
		switch command {
		case "", "version", "generate", "help", "h":
			return nil
		}

		verbose := c.GlobalBool("verbose")
		if verbose {
			fmt.Fprintf(c.App.ErrWriter, "certificate: %q\n", c.GlobalString("certificate"))
		}

		certificate, err := tls.LoadX509KeyPair(c.GlobalString("certificate"), c.GlobalString("key"))
		if nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			connect:     c.GlobalString("connect"),
			certificate: certificate,
			verbose:     verbose,
			e:           c.App.ErrWriter,
			w:           c.App.Writer,
		}
		return nil
	}

	return app
}
