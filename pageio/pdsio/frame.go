package pdsio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"golang.org/x/exp/slices"
)

const Magic = "PDS1\n"

const (
	PageFrame = 1
	EOS       = 0xff
)

type CompressionFormat byte

const (
	CompressionFormatNone CompressionFormat = 0
	CompressionFormatLZ4  CompressionFormat = 1
)

// MaxFrameSize bounds the uncompressed size of a frame a reader accepts.
const MaxFrameSize = 1 << 30

var ErrBadMagic = errors.New("pdsio: not a page dataset (bad magic)")

type frameWriter struct {
	w          *bufio.Writer
	compress   bool
	compressor lz4.Compressor
	zbuf       []byte
	hdr        []byte
}

func (f *frameWriter) writeFrame(kind byte, b []byte) error {
	cf := CompressionFormatNone
	payload := b
	if f.compress && len(b) > 0 {
		// Use len(b)-1 so compression fails unless it saves bytes.
		f.zbuf = slices.Grow(f.zbuf[:0], len(b)-1)[:len(b)-1]
		zlen, err := f.compressor.CompressBlock(b, f.zbuf)
		if err != nil && err != lz4.ErrInvalidSourceShortBuffer {
			return err
		}
		if zlen > 0 {
			payload = f.zbuf[:zlen]
			cf = CompressionFormatLZ4
		}
	}
	f.hdr = append(f.hdr[:0], kind, byte(cf))
	f.hdr = binary.AppendUvarint(f.hdr, uint64(len(b)))
	f.hdr = binary.AppendUvarint(f.hdr, uint64(len(payload)))
	if _, err := f.w.Write(f.hdr); err != nil {
		return err
	}
	_, err := f.w.Write(payload)
	return err
}

type frameReader struct {
	r    *bufio.Reader
	zbuf []byte
	ubuf []byte
}

// readFrame returns the kind and uncompressed payload of the next frame.
// The payload is valid until the next call.
func (f *frameReader) readFrame() (byte, []byte, error) {
	kind, err := f.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, nil, err
	}
	if kind == EOS {
		return EOS, nil, nil
	}
	if kind != PageFrame {
		return 0, nil, fmt.Errorf("pdsio: unknown frame kind 0x%x", kind)
	}
	cf, err := f.r.ReadByte()
	if err != nil {
		return 0, nil, noEOF(err)
	}
	ulen, err := binary.ReadUvarint(f.r)
	if err != nil {
		return 0, nil, noEOF(err)
	}
	zlen, err := binary.ReadUvarint(f.r)
	if err != nil {
		return 0, nil, noEOF(err)
	}
	if ulen > MaxFrameSize || zlen > MaxFrameSize {
		return 0, nil, fmt.Errorf("pdsio: frame too large (%d bytes)", ulen)
	}
	switch CompressionFormat(cf) {
	case CompressionFormatNone:
		if zlen != ulen {
			return 0, nil, fmt.Errorf("pdsio: uncompressed frame length mismatch %d != %d", zlen, ulen)
		}
		f.ubuf = slices.Grow(f.ubuf[:0], int(ulen))[:ulen]
		if _, err := io.ReadFull(f.r, f.ubuf); err != nil {
			return 0, nil, noEOF(err)
		}
	case CompressionFormatLZ4:
		f.zbuf = slices.Grow(f.zbuf[:0], int(zlen))[:zlen]
		if _, err := io.ReadFull(f.r, f.zbuf); err != nil {
			return 0, nil, noEOF(err)
		}
		f.ubuf = slices.Grow(f.ubuf[:0], int(ulen))[:ulen]
		n, err := lz4.UncompressBlock(f.zbuf, f.ubuf)
		if err != nil {
			return 0, nil, fmt.Errorf("pdsio: %w", err)
		}
		if n != len(f.ubuf) {
			return 0, nil, fmt.Errorf("pdsio: got %d uncompressed bytes, expected %d", n, len(f.ubuf))
		}
	default:
		return 0, nil, fmt.Errorf("pdsio: unknown compression format 0x%x", cf)
	}
	return kind, f.ubuf, nil
}

func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
