package cli

import (
	"fmt"
	"os"

	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
)

// checkError logs a fatal error and exits non-zero, the teacher's
// panic-free alternative to letting an error bubble out of main.
func checkError(err error) {
	if err == nil {
		return
	}
	log.Error(err)
	os.Exit(1)
}

func getFlagInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	checkError(err)
	return v
}

func getFlagPositiveInt(cmd *cobra.Command, name string) int {
	v := getFlagInt(cmd, name)
	if v <= 0 {
		checkError(fmt.Errorf("value of flag --%s should be positive integer", name))
	}
	return v
}

func getFlagBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	checkError(err)
	return v
}

func getFlagString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	checkError(err)
	return v
}

func isStdin(file string) bool { return file == "-" }

// checkInputFile fails fast, before any peer spawns a reader, if path
// names neither stdin nor an existing file — the same check the
// teacher's checkFiles performs ahead of opening.
func checkInputFile(path string) {
	if isStdin(path) {
		return
	}
	ok, err := pathutil.Exists(path)
	if err != nil {
		checkError(fmt.Errorf("fail to check input file %s: %s", path, err))
	}
	if !ok {
		checkError(fmt.Errorf("input file does not exist: %s", path))
	}
}
