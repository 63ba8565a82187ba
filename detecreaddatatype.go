package gwasbetas

import (
	"bufio"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "none"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "Z"
	case DataTypeBZip2:
		return "bzip2"
	}

	return "invalid"
}

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType peeks at the head of r and matches it against a set of known
// compression signatures. Nothing is consumed from r. Byte code signatures
// from https://stackoverflow.com/a/19127748/199475
func DetectDataType(r *bufio.Reader) (DataType, error) {
	buff, err := r.Peek(6)
	if err != nil && err != io.EOF {
		return DataTypeInvalid, err
	}

	// Match known signatures
Outer:
	for dt, sig := range byteCodeSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompressReadCloser wraps src with a decompressor chosen from its
// leading bytes. If forceGzip is set, the stream is read as gzip regardless of
// what the signature says. Closing the returned ReadCloser closes src.
func MaybeDecompressReadCloser(src io.ReadCloser, forceGzip bool) (io.ReadCloser, error) {
	buffered := bufio.NewReader(src)

	dt := DataTypeGzip
	if !forceGzip {
		var err error
		dt, err = DetectDataType(buffered)
		if err != nil {
			return nil, pfx.Err(err)
		}
	}

	var r io.Reader
	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return &layeredCloser{Reader: gz, closers: []io.Closer{gz, src}}, nil
	case DataTypeZ:
		// Unix compress uses its own LZW framing, which compress/lzw and
		// compress/zlib do not read
		return nil, &UnsupportedCompressionError{Type: dt}
	case DataTypeZip:
		zr := zipstream.NewReader(buffered)
		// Only the first entry of an archive is read
		if _, err := zr.Next(); err != nil {
			return nil, pfx.Err(err)
		}
		r = zr
	case DataTypeBZip2:
		r = bzip2.NewReader(buffered)
	case DataTypeXZ:
		xr, err := xz.NewReader(buffered, 0)
		if err != nil {
			return nil, pfx.Err(err)
		}
		r = xr
	default:
		// No data type detected. For now, we assume this is uncompressed.
		r = buffered
	}

	return &layeredCloser{Reader: r, closers: []io.Closer{src}}, nil
}

// UnsupportedCompressionError reports a recognized compression format that
// cannot be decoded.
type UnsupportedCompressionError struct {
	Type DataType
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("unsupported compression: %s", e.Type)
}

// layeredCloser closes a decompressor before the source it reads from.
type layeredCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *layeredCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
