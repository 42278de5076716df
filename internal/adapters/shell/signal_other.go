//go:build !unix

package shell

import "os"

func signalName(_ *os.ProcessState) string {
	return ""
}
