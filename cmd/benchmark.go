// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package cmd

import (
	"fmt"
	"time"

	"github.com/google/gopacket/pcap"
	"github.com/ikravets/errs"
	"github.com/jessevdk/go-flags"

	"github.com/ikravets/simba/packet"
	"github.com/ikravets/simba/packet/processor"
)

type cmdBenchmark struct {
	InputFileName string `long:"input" short:"i" required:"y" value-name:"PCAP_FILE" description:"input pcap file to read"`
	Iter          int    `long:"iter" short:"n" value-name:"NUM" default:"100" description:"number of iterations to run"`
	shouldExecute bool
}

func (c *cmdBenchmark) Execute(args []string) error {
	c.shouldExecute = true
	return nil
}

func (c *cmdBenchmark) ConfigParser(parser *flags.Parser) {
	parser.AddCommand("benchmark", "run decode benchmark", "", c)
}

func (c *cmdBenchmark) ParsingFinished() (err error) {
	if !c.shouldExecute {
		return
	}
	defer errs.PassE(&err)

	handle, err := pcap.OpenOffline(c.InputFileName)
	errs.CheckE(err)
	defer handle.Close()

	bo := packet.NewBufferedObtainer(handle)

	var totalDuration time.Duration
	for i := 0; i < c.Iter; i++ {
		bo.Reset()
		pp := processor.NewProcessor()
		pp.SetObtainer(bo)
		start := time.Now()
		errs.CheckE(pp.ProcessAll())
		totalDuration += time.Since(start)
	}
	if bo.Packets() == 0 {
		fmt.Println("empty capture")
		return
	}
	timePerPacket := totalDuration / time.Duration(c.Iter*bo.Packets())
	fmt.Printf("total duration: %s, time/pkt: %s\n", totalDuration, timePerPacket)
	return
}

func init() {
	var c cmdBenchmark
	Registry.Register(&c)
}
