package seqio

import (
	"os"

	"github.com/pkg/errors"
)

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open input file %s", path)
	}
	return f, nil
}
