package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FilesystemOutput writes every instrumented http message into its own
// file, files of one process share a timestamp prefix so that runs do not
// overwrite each other.
type FilesystemOutput struct {
	directory string
	prefix    string
}

func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{
		directory: dir,
		prefix:    time.Now().Format("20060102-150405"),
	}, nil
}

func (o FilesystemOutput) path(id string) string {
	id = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, id)
	return filepath.Join(o.directory, fmt.Sprintf("%s-%s.txt", o.prefix, id))
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(o.path(id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write http message", "id", id, "err", err)
	}
}
