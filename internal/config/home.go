package config

import "os"

// HomeEnv overrides the directory holding logs, history and config.
const HomeEnv = "QCREPORT_HOME"

// HomeDir returns $QCREPORT_HOME when set, otherwise ".qcreport" relative
// to the working directory. The directory is not created.
func HomeDir() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	return ".qcreport"
}
