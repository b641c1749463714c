package cli

import (
	"bufio"
	"io"
	"os"
	"strings"

	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// outStream opens file ("-" for stdout) and wraps it with a gzip writer
// when the name ends in .gz, mirroring the teacher's unikmer/cmd/util-io.go
// outStream. The caller must Flush the bufio.Writer, then Close the
// io.WriteCloser (nil when not gzipped), then Close the *os.File.
func outStream(file string) (*bufio.Writer, io.WriteCloser, *os.File, error) {
	var w *os.File
	if file == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(file)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "fail to create output file %s", file)
		}
		w = f
	}

	if strings.HasSuffix(strings.ToLower(file), ".gz") {
		gw := gzip.NewWriter(w)
		return bufio.NewWriterSize(gw, 1<<16), gw, w, nil
	}
	return bufio.NewWriterSize(w, 1<<16), nil, w, nil
}
