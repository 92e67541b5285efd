package logs

import (
	"log"
	"os"
	"path/filepath"

	"github.com/cube2222/ndarray/config"
)

var Output *os.File

// InitializeFileLogger redirects the standard logger into ~/.ndarray/logs.txt,
// so that it doesn't interfere with command output.
func InitializeFileLogger() {
	path := filepath.Join(config.NdarrayDir, "logs.txt")
	if err := os.MkdirAll(config.NdarrayDir, 0755); err != nil {
		log.Fatalf("couldn't create ~/.ndarray home directory: %s", err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("couldn't create logs file: %s", err)
	}
	Output = f
	log.SetOutput(Output)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

func CloseLogger() {
	if Output != nil {
		Output.Close()
	}
}
