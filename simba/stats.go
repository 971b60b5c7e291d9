// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package simba

import (
	"fmt"
	"io"
)

// Statistics are the decoder's observability counters.
type Statistics struct {
	PacketsSeen              uint64
	TotalSnapshotsProcessed  uint64
	MixedSnapshotsDetected   uint64
	IncrementalBlocksDecoded uint64
	IgnoredTemplates         uint64
	DecodeErrors             uint64
}

// Report writes the textual statistics summary.
func (s Statistics) Report(w io.Writer) (err error) {
	_, err = fmt.Fprintf(w, ""+
		"=== SIMBA decoder statistics ===\n"+
		"packets seen:               %d\n"+
		"snapshots processed:        %d\n"+
		"mixed snapshots detected:   %d\n"+
		"incremental blocks decoded: %d\n"+
		"ignored templates:          %d\n"+
		"decode errors:              %d\n",
		s.PacketsSeen, s.TotalSnapshotsProcessed, s.MixedSnapshotsDetected,
		s.IncrementalBlocksDecoded, s.IgnoredTemplates, s.DecodeErrors)
	return
}
