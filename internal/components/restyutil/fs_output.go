package restyutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FilesystemOutput writes every captured message to its own file in a directory.
type FilesystemOutput struct {
	directory string
	mu        *sync.Mutex
	errs      *[]error
}

// NewFilesystemOutput creates dir if it does not exist yet, existing captures are kept.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return FilesystemOutput{}, fmt.Errorf("create capture directory: %w", err)
	}
	return FilesystemOutput{
		directory: dir,
		mu:        &sync.Mutex{},
		errs:      &[]error{},
	}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0644)
	if err != nil {
		o.mu.Lock()
		*o.errs = append(*o.errs, err)
		o.mu.Unlock()
	}
}

// Errors returns the write failures so far, Write itself never fails a request.
func (o FilesystemOutput) Errors() []error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]error(nil), *o.errs...)
}
