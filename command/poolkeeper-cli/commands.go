// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/poolkeeper/command/poolkeeper-cli/rpccalls"
	ex "github.com/bitmark-inc/poolkeeper/exchange"
	"github.com/bitmark-inc/poolkeeper/rpc/certificate"
	"github.com/bitmark-inc/poolkeeper/txid"
)

func connect(c *cli.Context) (*rpccalls.Client, *metadata, error) {
	m := c.App.Metadata["config"].(*metadata)
	client, err := rpccalls.NewClient(m.connect, m.certificate, m.verbose, m.e)
	if nil != err {
		return nil, nil, err
	}
	return client, m, nil
}

func runGenerate(c *cli.Context) error {
	directory := "."
	if c.NArg() > 0 {
		directory = c.Args().Get(0)
	}
	certificateFile := filepath.Join(directory, "client.crt")
	keyFile := filepath.Join(directory, "client.key")

	for _, name := range []string{certificateFile, keyFile} {
		if _, err := os.Stat(name); nil == err {
			return fmt.Errorf("not overwriting existing file: %q", name)
		}
	}

	cer, key, err := certificate.Generate("poolkeeper-cli", nil)
	if nil != err {
		return err
	}
	if err := os.WriteFile(keyFile, []byte(key), 0600); nil != err {
		return err
	}
	if err := os.WriteFile(certificateFile, []byte(cer), 0644); nil != err {
		return err
	}

	identity, err := identityOf(cer)
	if nil != err {
		return err
	}
	printJson(c.App.Writer, map[string]string{
		"certificate": certificateFile,
		"key":         keyFile,
		"identity":    identity,
	})
	return nil
}

func runInfo(c *cli.Context) error {
	client, m, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	info, err := client.Info()
	if nil != err {
		return err
	}
	printJson(m.w, info)
	return nil
}

func runPools(c *cli.Context) error {
	client, m, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	pools, err := client.PoolList()
	if nil != err {
		return err
	}
	printJson(m.w, pools)
	return nil
}

func runPool(c *cli.Context) error {
	address, err := checkRequired(c, "address")
	if nil != err {
		return err
	}

	client, m, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	pool, err := client.PoolInfo(address)
	if nil != err {
		return err
	}
	if nil == pool {
		return fmt.Errorf("pool: %q not found", address)
	}
	printJson(m.w, pool)
	return nil
}

func runNewBlock(c *cli.Context) error {
	hash, err := checkRequired(c, "hash")
	if nil != err {
		return err
	}
	height := c.Uint("height")
	if 0 == height {
		return fmt.Errorf("height is required")
	}

	ids, err := parseTxids(c.StringSlice("txid"))
	if nil != err {
		return err
	}

	client, m, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	args := &ex.NewBlockArgs{
		Height:         uint32(height),
		Hash:           hash,
		Timestamp:      c.Uint64("timestamp"),
		ConfirmedTxids: ids,
	}
	if err := client.NewBlock(args); nil != err {
		return err
	}
	printJson(m.w, args)
	return nil
}

func runReject(c *cli.Context) error {
	s, err := checkRequired(c, "txid")
	if nil != err {
		return err
	}
	id, err := txid.FromString(s)
	if nil != err {
		return err
	}

	client, m, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	args := &ex.RejectTxArgs{
		Txid:   id,
		Reason: c.String("reason"),
	}
	if err := client.RejectTx(args); nil != err {
		return err
	}
	printJson(m.w, args)
	return nil
}

func runExecute(c *cli.Context) error {
	var in io.Reader = os.Stdin
	if name := c.String("file"); "-" != name && "" != name {
		fd, err := os.Open(name)
		if nil != err {
			return err
		}
		defer fd.Close()
		in = fd
	}

	var args ex.ExecuteArgs
	if err := json.NewDecoder(in).Decode(&args); nil != err {
		return fmt.Errorf("decode execute arguments: %w", err)
	}

	client, m, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Execute(&args)
	if nil != err {
		return err
	}
	printJson(m.w, reply)
	return nil
}

func checkRequired(c *cli.Context, name string) (string, error) {
	value := c.String(name)
	if "" == value {
		return "", fmt.Errorf("%s is required", name)
	}
	return value, nil
}

func parseTxids(values []string) ([]txid.Txid, error) {
	ids := make([]txid.Txid, 0, len(values))
	for _, s := range values {
		id, err := txid.FromString(s)
		if nil != err {
			return nil, fmt.Errorf("txid: %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// the identity poolkeeperd sees for a PEM certificate
func identityOf(cer string) (string, error) {
	block, _ := pem.Decode([]byte(cer))
	if nil == block {
		return "", fmt.Errorf("no certificate found")
	}
	fin := certificate.Fingerprint(block.Bytes)
	return hex.EncodeToString(fin[:]), nil
}

func printJson(w io.Writer, message interface{}) {
	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		fmt.Fprintf(w, "JSON error: %s\n", err)
		return
	}
	fmt.Fprintf(w, "%s\n", b)
}
