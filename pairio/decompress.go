package pairio

import (
	"compress/bzip2"
	"io"
	"strings"

	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// openCompressed wraps r in a decompressing reader chosen from name's
// extension, mirroring original_source/fileio.c + bzstream.c's
// transparent-decompression design (and styled after pileup/common.go's
// fileio.DetermineType switch). bzip2 has no third-party decoder anywhere
// in the pack or its transitive deps, so that branch falls back to the
// standard library (see DESIGN.md).
func openCompressed(name string, r io.Reader) (io.Reader, error) {
	switch {
	case fileio.DetermineType(name) == fileio.Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "pairio: open gzip stream %s", name)
		}
		return gr, nil
	case strings.HasSuffix(name, ".bz2"):
		return bzip2.NewReader(r), nil
	default:
		return r, nil
	}
}
