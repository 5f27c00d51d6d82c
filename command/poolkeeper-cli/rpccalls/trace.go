// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"encoding/json"
	"fmt"
)

// call - invoke one Exchange method, tracing both directions when verbose
func (c *Client) call(method string, args interface{}, reply interface{}) error {
	c.trace(method+" Request", args)
	if err := c.client.Call("Exchange."+method, args, reply); nil != err {
		c.trace(method+" Error", err.Error())
		return err
	}
	c.trace(method+" Reply", reply)
	return nil
}

func (c *Client) trace(title string, message interface{}) {
	if !c.verbose {
		return
	}

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		fmt.Fprintf(c.handle, "%s: %s\n", title, err)
		return
	}
	fmt.Fprintf(c.handle, "%s:\n%s\n", title, b)
}
