// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket/pcap"
	"github.com/ikravets/errs"
	"github.com/jessevdk/go-flags"
	"github.com/kr/pretty"

	"github.com/ikravets/simba/config"
	"github.com/ikravets/simba/packet"
	"github.com/ikravets/simba/packet/processor"
)

type cmdDecode struct {
	InputFileName  string `long:"input" short:"i" required:"y" value-name:"PCAP_FILE" description:"input pcap file to read"`
	OutputFileName string `long:"output" short:"o" value-name:"FILE" default:"/dev/stdout" default-mask:"stdout" description:"output file"`
	ConfigFileName string `long:"config" short:"c" value-name:"YAML_FILE" description:"listener config file"`
	Limit          int    `long:"limit" short:"n" value-name:"NUM" description:"stop after NUM packets"`
	Verbose        bool   `long:"verbose" short:"v" description:"dump every field of each decoded message"`
	shouldExecute  bool
}

func (c *cmdDecode) Execute(args []string) error {
	c.shouldExecute = true
	return nil
}

func (c *cmdDecode) ConfigParser(parser *flags.Parser) {
	parser.AddCommand("decode", "decode SIMBA SPECTRA messages from a pcap capture", "", c)
}

func (c *cmdDecode) ParsingFinished() (err error) {
	if !c.shouldExecute {
		return
	}
	defer errs.PassE(&err)

	cfg := config.Default()
	if c.ConfigFileName != "" {
		cfg, err = config.Load(c.ConfigFileName)
		errs.CheckE(err)
	}
	limit := cfg.PacketLimit
	if c.Limit != 0 {
		limit = c.Limit
	}

	handle, err := pcap.OpenOffline(c.InputFileName)
	errs.CheckE(err)
	defer handle.Close()
	outFile, err := os.OpenFile(c.OutputFileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	errs.CheckE(err)
	defer func() { errs.CheckE(outFile.Close()) }()

	writer := &messageWriter{w: outFile, verbose: c.Verbose || cfg.Verbose}
	pp := processor.NewProcessor()
	pp.SetObtainer(handle)
	pp.SetHandler(writer)
	pp.SetFilter(cfg.Port, cfg.GroupIP())
	pp.LimitPacketNumber(limit)
	errs.CheckE(pp.ProcessAll())
	errs.CheckE(pp.Decoder().Statistics().Report(outFile))
	return
}

func init() {
	var c cmdDecode
	Registry.Register(&c)
}

type messageWriter struct {
	w          io.Writer
	verbose    bool
	messageNum int
}

func (p *messageWriter) HandlePacket(_ packet.Packet) {}

func (p *messageWriter) HandleMessage(m packet.ApplicationMessage) {
	p.messageNum++
	var err error
	if p.verbose {
		_, err = fmt.Fprintf(p.w, "%d seq %d %s\n", p.messageNum, m.SequenceNumber(), pretty.Sprint(m.Message()))
	} else {
		_, err = fmt.Fprintf(p.w, "%d %s\n", p.messageNum, m.Message())
	}
	errs.CheckE(err)
}
