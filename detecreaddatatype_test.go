package gwasbetas

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestMaybeDecompressDetectsGzip(t *testing.T) {
	src := io.NopCloser(bytes.NewReader(gzipBytes(t, "SNP A1 A2\nrs1 A T\n")))

	rc, err := MaybeDecompressReadCloser(src, false)
	require.NoError(t, err)
	defer rc.Close()

	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "SNP A1 A2\nrs1 A T\n", string(out))
}

func TestMaybeDecompressPassesPlainText(t *testing.T) {
	src := io.NopCloser(bytes.NewReader([]byte("SNP\n")))

	rc, err := MaybeDecompressReadCloser(src, false)
	require.NoError(t, err)
	defer rc.Close()

	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "SNP\n", string(out))
}

func TestMaybeDecompressForcedGzipRejectsPlainText(t *testing.T) {
	src := io.NopCloser(bytes.NewReader([]byte("SNP A1 A2\n")))

	_, err := MaybeDecompressReadCloser(src, true)
	require.Error(t, err)
}

func TestMaybeDecompressRejectsUnixCompress(t *testing.T) {
	// "A\n" as written by compress(1)
	src := io.NopCloser(bytes.NewReader([]byte{0x1f, 0x9d, 0x90, 0x41, 0x14, 0x00}))

	_, err := MaybeDecompressReadCloser(src, false)

	var unsupported *UnsupportedCompressionError
	require.True(t, errors.As(err, &unsupported))
	require.Equal(t, DataTypeZ, unsupported.Type)
	require.Equal(t, "unsupported compression: Z", err.Error())
}
