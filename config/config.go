// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

// Package config loads the listener configuration for a capture run.
package config

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"
)

// Listener describes the SIMBA channel to decode from a capture.
type Listener struct {
	Port        uint16 `yaml:"port"`
	Group       string `yaml:"group"`
	PacketLimit int    `yaml:"packet_limit"`
	Verbose     bool   `yaml:"verbose"`
}

// Default is the canonical SIMBA SPECTRA channel.
func Default() Listener {
	return Listener{
		Port:  44040,
		Group: "239.195.20.82",
	}
}

func Load(fileName string) (l Listener, err error) {
	l = Default()
	data, err := os.ReadFile(fileName)
	if err != nil {
		return
	}
	if err = yaml.Unmarshal(data, &l); err != nil {
		return
	}
	if l.Group != "" && l.GroupIP() == nil {
		err = fmt.Errorf("config %s: invalid multicast group %q", fileName, l.Group)
	}
	return
}

// GroupIP returns the parsed multicast group, nil when unset or
// invalid.
func (l Listener) GroupIP() net.IP {
	if l.Group == "" {
		return nil
	}
	return net.ParseIP(l.Group)
}
