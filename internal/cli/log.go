package cli

import "github.com/shenwei356/go-logging"

var log = logging.MustGetLogger("kmerforge")
