// Package bundle serializes extracted artifacts for the host that loads and
// runs them. A bundle is a struc-packed header followed by a snappy stream of
// length-prefixed records: text name, text, rodata name, rodata, then the
// function symbols.
package bundle

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/ioutil"
	"strings"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/lunixbochs/rawcode/go/loader"
	"github.com/lunixbochs/rawcode/go/models"
)

var BUNDLE_MAGIC = "RCOB"

const BUNDLE_VERSION = 1

const (
	FlagRodata = 1 << iota
)

type Header struct {
	// MAGIC ("RCOB")
	Magic   string `struc:"[4]byte" json:"-"`
	Version uint32 `json:"version"`
	// Architecture name, right-null-padded.
	Arch       string `struc:"[32]byte" json:"arch"`
	Flags      uint32 `json:"flags"`
	RodataBase uint64 `json:"rodata_base"`
	Symbols    uint32 `json:"symbols"`
}

type blob struct {
	Size uint32 `struc:"sizeof=Data"`
	Data []byte
}

type symbolRecord struct {
	NameLen uint16 `struc:"sizeof=Name"`
	Name    string
	Start   uint64
	Size    uint64
	Section uint16
	Global  uint8
}

func Write(w io.Writer, a *loader.Artifacts) error {
	header := &Header{
		Magic:   BUNDLE_MAGIC,
		Version: BUNDLE_VERSION,
		Arch:    a.Arch,
		Symbols: uint32(len(a.Symbols)),
	}
	var rodataName string
	var rodata []byte
	if a.Rodata != nil {
		header.Flags |= FlagRodata
		header.RodataBase = a.Rodata.Base
		rodataName = a.RodataName
		rodata = a.Rodata.Data
	}
	if err := struc.Pack(w, header); err != nil {
		return errors.Wrap(err, "failed to pack header")
	}

	var body bytes.Buffer
	s := &models.StrucStream{Stream: &body, Order: binary.BigEndian}
	for _, b := range [][]byte{[]byte(a.TextName), a.Text, []byte(rodataName), rodata} {
		if err := s.Pack(&blob{Data: b}); err != nil {
			return errors.Wrap(err, "failed to pack payload")
		}
	}
	for _, sym := range a.Symbols {
		rec := &symbolRecord{Name: sym.Name, Start: sym.Start, Size: sym.Size, Section: sym.Section}
		if sym.Global {
			rec.Global = 1
		}
		if err := s.Pack(rec); err != nil {
			return errors.Wrapf(err, "failed to pack symbol %q", sym.Name)
		}
	}
	zw := snappy.NewBufferedWriter(w)
	if _, err := zw.Write(body.Bytes()); err != nil {
		return errors.Wrap(err, "failed to compress body")
	}
	return errors.Wrap(zw.Close(), "failed to flush body")
}

func Read(r io.Reader) (*Header, *loader.Artifacts, error) {
	header := &Header{}
	if err := struc.Unpack(r, header); err != nil {
		return nil, nil, errors.Wrap(err, "failed to unpack header")
	}
	if header.Magic != BUNDLE_MAGIC {
		return nil, nil, errors.New("invalid bundle magic")
	}
	if header.Version != BUNDLE_VERSION {
		return nil, nil, errors.Errorf("unsupported bundle version %d", header.Version)
	}
	header.Arch = strings.TrimRight(header.Arch, "\x00")

	body, err := ioutil.ReadAll(snappy.NewReader(r))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to decompress body")
	}
	s := &models.StrucStream{Stream: bytes.NewBuffer(body), Order: binary.BigEndian}
	var blobs [4]blob
	for i := range blobs {
		if err := s.Unpack(&blobs[i]); err != nil {
			return nil, nil, errors.Wrap(err, "failed to unpack payload")
		}
	}
	a := &loader.Artifacts{
		Arch:     header.Arch,
		TextName: string(blobs[0].Data),
		Text:     nonNil(blobs[1].Data),
	}
	if header.Flags&FlagRodata != 0 {
		a.RodataName = string(blobs[2].Data)
		a.Rodata = &models.Rodata{Data: nonNil(blobs[3].Data), Base: header.RodataBase}
	}
	for i := uint32(0); i < header.Symbols; i++ {
		var rec symbolRecord
		if err := s.Unpack(&rec); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to unpack symbol %d", i)
		}
		a.Symbols = append(a.Symbols, models.Symbol{
			Name:    rec.Name,
			Start:   rec.Start,
			Size:    rec.Size,
			Section: rec.Section,
			Global:  rec.Global != 0,
		})
	}
	return header, a, nil
}

func nonNil(p []byte) []byte {
	if p == nil {
		return []byte{}
	}
	return p
}
