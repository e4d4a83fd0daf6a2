// Package state serializes parameter values as a flat XML document wrapped in
// a small binary container.
//
// The document has the form
//
//	<Parameters><PARAM id="input" value="0"/>...</Parameters>
//
// and the container is the 4-byte magic "VC2!", a little-endian uint32 byte
// length of the XML text, the text itself and a NUL terminator. Decode also
// accepts the bare XML text.
package state

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// Magic is the container header, "VC2!" read as a little-endian uint32.
const Magic uint32 = 0x21324356

// RootTag is the required document element name.
const RootTag = "Parameters"

const headerSize = 8

// ErrMalformedState indicates data that is neither a valid container nor a
// valid document.
var ErrMalformedState = errors.New("state: malformed state")

type paramEntry struct {
	ID    string `xml:"id,attr"`
	Value string `xml:"value,attr"`
}

type document struct {
	XMLName xml.Name     `xml:"Parameters"`
	Params  []paramEntry `xml:"PARAM"`
}

// Encode writes values in key order. Values are formatted with the shortest
// representation that parses back to the same float64.
func Encode(values map[string]float64) ([]byte, error) {
	text, err := MarshalXML(values)
	if err != nil {
		return nil, err
	}

	out := make([]byte, headerSize, headerSize+len(text)+1)
	binary.LittleEndian.PutUint32(out[0:4], Magic)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(text)))
	out = append(out, text...)
	out = append(out, 0)

	return out, nil
}

// MarshalXML returns the bare XML document for values.
func MarshalXML(values map[string]float64) ([]byte, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	doc := document{Params: make([]paramEntry, len(keys))}
	for i, k := range keys {
		doc.Params[i] = paramEntry{ID: k, Value: strconv.FormatFloat(values[k], 'g', -1, 64)}
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}

	return append([]byte(`<?xml version="1.0" encoding="UTF-8"?>`), body...), nil
}

// Decode parses a container or a bare XML document. Entries whose value is
// not a number are skipped.
func Decode(data []byte) (map[string]float64, error) {
	text, err := unwrap(data)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := xml.Unmarshal(text, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	values := make(map[string]float64, len(doc.Params))

	for _, p := range doc.Params {
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil || p.ID == "" {
			continue
		}

		values[p.ID] = v
	}

	return values, nil
}

func unwrap(data []byte) ([]byte, error) {
	if len(data) >= headerSize && binary.LittleEndian.Uint32(data[0:4]) == Magic {
		n := binary.LittleEndian.Uint32(data[4:8])
		if uint64(n) > uint64(len(data)-headerSize) {
			return nil, fmt.Errorf("%w: declared length %d exceeds %d bytes", ErrMalformedState, n, len(data)-headerSize)
		}

		return bytes.TrimRight(data[headerSize:headerSize+int(n)], "\x00"), nil
	}

	text := bytes.TrimSpace(data)
	if len(text) == 0 || text[0] != '<' {
		return nil, fmt.Errorf("%w: no container header and no XML", ErrMalformedState)
	}

	return text, nil
}
