// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/poolkeeper/configuration"
	"github.com/bitmark-inc/poolkeeper/hook"
	"github.com/bitmark-inc/poolkeeper/rpc/certificate"
	"github.com/bitmark-inc/poolkeeper/signer"
)

const (
	seedFilename = "poolkeeper.seed"

	rpcCertificateFilename = "rpc.crt"
	rpcPrivateKeyFilename  = "rpc.key"
)

// setup command handler
//
// commands that run to create seed and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "generate-seed", "seed":
		seedFile := getFilenameWithDirectory(arguments, seedFilename)

		seed, err := signer.GenerateSeed()
		if nil != err {
			exitwithstatus.Message("generate seed: %q error: %s", seedFile, err)
		}
		if err := writeNewFile(seedFile, hex.EncodeToString(seed)+"\n"); nil != err {
			exitwithstatus.Message("generate seed: %q error: %s", seedFile, err)
		}
		fmt.Printf("generated seed: %q\n", seedFile)

	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		hosts := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					hosts = append(hosts, a)
				}
			}
		}

		cer, key, err := certificate.Generate("poolkeeperd", hosts)
		if nil == err {
			err = writeNewFile(privateKeyFilename, key)
		}
		if nil == err {
			err = writeNewFile(certificateFilename, cer)
			if nil != err {
				_ = os.Remove(privateKeyFilename)
			}
		}
		if nil != err {
			exitwithstatus.Message("generate RPC key: %q and certificate: %q error: %s", privateKeyFilename, certificateFilename, err)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "fingerprint", "fin":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing certificate file argument")
		}
		fin, err := fingerprint(arguments[0])
		if nil != err {
			exitwithstatus.Message("fingerprint: %q error: %s", arguments[0], err)
		}
		fmt.Printf("%s\n", fin)

	case "start", "run":
		return false // continue processing

	case "register-pool", "reg", "pools", "blocks":
		return false // defer processing until database is loaded

	case "config-test", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  generate-seed [DIR]        (seed)   - create HD signer seed in: %q\n", "DIR/"+seedFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...] (rpc)   - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateFilename)
		fmt.Printf("\n")

		fmt.Printf("  fingerprint FILE           (fin)    - display the identity of a certificate\n")
		fmt.Printf("                                        for the orchestrator setting\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  register-pool NAME [PATH...] (reg)  - derive a pool key and add an empty pool\n")
		fmt.Printf("                                        path defaults to the name\n")
		fmt.Printf("\n")

		fmt.Printf("  pools                               - list the pools as JSON\n")
		fmt.Printf("\n")

		fmt.Printf("  blocks                              - list the stored blocks as JSON\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		printJSON(options)

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the storage is opened so these commands can access and/or change
// the pools
func processDataCommand(log *logger.L, arguments []string, options *configuration.Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "start", "run":
		return false // continue processing

	case "register-pool", "reg", "pools", "blocks":
	default:
		exitwithstatus.Message("error: no such command: %s", command)
	}

	n, err := newNode(log, options, hook.Nop{})
	if nil != err {
		exitwithstatus.Message("error: %s", err)
	}
	defer n.close()

	switch command {
	case "register-pool", "reg":
		if len(arguments) < 1 || "" == arguments[0] {
			exitwithstatus.Message("missing pool name argument")
		}
		path := [][]byte{}
		for _, element := range arguments[1:] {
			path = append(path, []byte(element))
		}

		pool, err := n.exchange.RegisterPool(context.Background(), arguments[0], path)
		if nil != err {
			exitwithstatus.Message("register pool: %q error: %s", arguments[0], err)
		}
		printJSON(pool.Info())

	case "pools":
		pools, err := n.exchange.PoolList()
		if nil != err {
			exitwithstatus.Message("pools error: %s", err)
		}
		printJSON(pools)

	case "blocks":
		pipeline := n.exchange.Pipeline()
		blocks, err := pipeline.Blocks().List(pipeline.Store())
		if nil != err {
			exitwithstatus.Message("blocks error: %s", err)
		}
		printJSON(blocks)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// DIR is the first argument, otherwise the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	directory := "."
	if len(arguments) > 0 && "" != arguments[0] {
		directory = arguments[0]
	}
	return filepath.Join(directory, name)
}

// refuse to overwrite an existing file
func writeNewFile(fileName string, data string) error {
	fd, err := os.OpenFile(fileName, os.O_WRONLY|os.O_EXCL|os.O_CREATE, 0600)
	if nil != err {
		return err
	}
	_, err = fd.WriteString(data)
	if closeErr := fd.Close(); nil == err {
		err = closeErr
	}
	if nil != err {
		_ = os.Remove(fileName)
	}
	return err
}

// identity of the first certificate in a PEM file
func fingerprint(fileName string) (string, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		return "", err
	}
	block, _ := pem.Decode(data)
	if nil == block || "CERTIFICATE" != block.Type {
		return "", fmt.Errorf("no certificate found")
	}
	fin := certificate.Fingerprint(block.Bytes)
	return hex.EncodeToString(fin[:]), nil
}

func printJSON(data interface{}) {
	b, err := json.Marshal(data)
	if err != nil {
		exitwithstatus.Message("error: %s", err)
	}
	var out bytes.Buffer
	_ = json.Indent(&out, b, "", "  ")
	_, _ = out.WriteTo(os.Stdout)
	_, _ = os.Stdout.WriteString("\n")
}
