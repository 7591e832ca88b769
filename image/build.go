// Package image builds and inspects contract images: WebAssembly modules
// carrying a custom section that names the contract implementation the host
// runs for them.
package image

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SectionName is the custom section holding the manifest.
const SectionName = "riffs.contract"

var wasmHeader = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// Manifest describes an image.
type Manifest struct {
	Contract string `json:"contract"`
	Tag      string `json:"tag,omitempty"`
}

// Build returns a minimal valid module whose only content is the manifest.
func Build(m Manifest) ([]byte, error) {
	if m.Contract == "" {
		return nil, fmt.Errorf("image manifest needs a contract name")
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}

	var section bytes.Buffer
	writeULEB(&section, uint64(len(SectionName)))
	section.WriteString(SectionName)
	section.Write(payload)

	var out bytes.Buffer
	out.Write(wasmHeader)
	out.WriteByte(0x00) // custom section id
	writeULEB(&out, uint64(section.Len()))
	out.Write(section.Bytes())
	return out.Bytes(), nil
}

// MustBuild is Build for fixtures; it panics on error.
func MustBuild(contract, tag string) []byte {
	b, err := Build(Manifest{Contract: contract, Tag: tag})
	if err != nil {
		panic(err)
	}
	return b
}

func writeULEB(w *bytes.Buffer, v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}
