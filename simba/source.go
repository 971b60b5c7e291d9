// Copyright (c) Ilia Kravets, 2016. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package simba

// PayloadSource produces UDP payloads in capture order. It reports
// io.EOF when the stream ends.
type PayloadSource interface {
	Next() ([]byte, error)
}

// Source turns a payload sequence into a lazy, non-restartable sequence
// of decoded messages.
type Source struct {
	decoder  *Decoder
	payloads PayloadSource
}

func NewSource(payloads PayloadSource) *Source {
	return &Source{
		decoder:  NewDecoder(),
		payloads: payloads,
	}
}

func (s *Source) Decoder() *Decoder {
	return s.decoder
}

// Next returns the next fully decoded message, consuming as many
// payloads as it takes to complete one. The underlying source's error
// (io.EOF included) ends the sequence.
func (s *Source) Next() (DecodedMessage, error) {
	for {
		payload, err := s.payloads.Next()
		if err != nil {
			return nil, err
		}
		if msg := s.decoder.Decode(payload); msg != nil {
			return msg, nil
		}
	}
}
