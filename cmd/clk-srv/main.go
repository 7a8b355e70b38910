// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clk-srv starts a TDAQ server computing clock generator
// register fields on behalf of the run-control.
//
// The server handles the following commands:
//   - /solve: request body is (str topology, u64 input, u64 output),
//     response body is (u64 rate, u64 deviation, u32 fields...),
//   - /rate: request body is (str topology, u64 input, u32 fields...),
//     response body is (u64 rate).
package main // import "github.com/go-lpc/clkgen/cmd/clk-srv"

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"

	"github.com/go-lpc/clkgen"
)

func main() {
	cmd := flags.New()

	dev := server{name: cmd.Name}

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.CmdHandle("/solve", dev.OnSolve)
	srv.CmdHandle("/rate", dev.OnRate)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

type server struct {
	name string

	nsolve int // number of /solve requests served since /init
	nrate  int // number of /rate requests served since /init
}

func (srv *server) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	return nil
}

func (srv *server) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	srv.nsolve = 0
	srv.nrate = 0
	return nil
}

func (srv *server) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	srv.nsolve = 0
	srv.nrate = 0
	return nil
}

func (srv *server) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	return nil
}

func (srv *server) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /stop command... -> solve=%d, rate=%d", srv.nsolve, srv.nrate)
	return nil
}

func (srv *server) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	return nil
}

func (srv *server) OnSolve(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	dec := tdaq.NewDecoder(bytes.NewReader(req.Body))
	var (
		name = dec.ReadStr()
		in   = dec.ReadU64()
		out  = dec.ReadU64()
	)
	if err := dec.Err(); err != nil {
		ctx.Msg.Errorf("could not decode /solve request: %+v", err)
		return fmt.Errorf("could not decode /solve request: %w", err)
	}
	ctx.Msg.Debugf("received /solve command: %s in=%d out=%d", name, in, out)

	topo, err := clkgen.ParseTopology(name)
	if err != nil {
		ctx.Msg.Errorf("could not parse topology %q: %+v", name, err)
		return fmt.Errorf("could not parse topology %q: %w", name, err)
	}

	sol, err := clkgen.Solve(topo, in, out)
	if err != nil {
		ctx.Msg.Errorf("could not solve %v (in=%d, out=%d): %+v", topo, in, out, err)
		return fmt.Errorf("could not solve %v (in=%d, out=%d): %w", topo, in, out, err)
	}

	buf := new(bytes.Buffer)
	enc := tdaq.NewEncoder(buf)
	enc.WriteU64(sol.Rate)
	enc.WriteU64(sol.Deviation)
	for _, v := range sol.Fields() {
		enc.WriteU32(v)
	}
	if err := enc.Err(); err != nil {
		ctx.Msg.Errorf("could not encode /solve response: %+v", err)
		return fmt.Errorf("could not encode /solve response: %w", err)
	}
	resp.Body = buf.Bytes()
	srv.nsolve++

	ctx.Msg.Infof("%v: in=%d out=%d -> rate=%d (dev=%d Hz)", topo, in, out, sol.Rate, sol.Deviation)
	return nil
}

func (srv *server) OnRate(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	dec := tdaq.NewDecoder(bytes.NewReader(req.Body))
	var (
		name = dec.ReadStr()
		in   = dec.ReadU64()
	)
	if err := dec.Err(); err != nil {
		ctx.Msg.Errorf("could not decode /rate request: %+v", err)
		return fmt.Errorf("could not decode /rate request: %w", err)
	}

	topo, err := clkgen.ParseTopology(name)
	if err != nil {
		ctx.Msg.Errorf("could not parse topology %q: %+v", name, err)
		return fmt.Errorf("could not parse topology %q: %w", name, err)
	}

	fields := make([]uint32, clkgen.NumFields(topo))
	for i := range fields {
		fields[i] = dec.ReadU32()
	}
	if err := dec.Err(); err != nil {
		ctx.Msg.Errorf("could not decode %v fields: %+v", topo, err)
		return fmt.Errorf("could not decode %v fields: %w", topo, err)
	}
	ctx.Msg.Debugf("received /rate command: %v in=%d fields=%v", topo, in, fields)

	rate, err := clkgen.Rate(topo, in, fields)
	if err != nil {
		ctx.Msg.Errorf("could not evaluate %v fields %v: %+v", topo, fields, err)
		return fmt.Errorf("could not evaluate %v fields %v: %w", topo, fields, err)
	}

	buf := new(bytes.Buffer)
	enc := tdaq.NewEncoder(buf)
	enc.WriteU64(rate)
	if err := enc.Err(); err != nil {
		ctx.Msg.Errorf("could not encode /rate response: %+v", err)
		return fmt.Errorf("could not encode /rate response: %w", err)
	}
	resp.Body = buf.Bytes()
	srv.nrate++

	return nil
}
