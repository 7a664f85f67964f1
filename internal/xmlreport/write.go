package xmlreport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lintreport/internal/report"
	"lintreport/internal/rules"
)

// ErrWriteFailed matches every *WriteError.
var ErrWriteFailed = errors.New("report write failed")

// WriteError reports that the rendered document could not be stored.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrWriteFailed, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrWriteFailed) hold for any WriteError.
func (e *WriteError) Is(target error) bool { return target == ErrWriteFailed }

// WriteFile renders rep and atomically replaces path with the result. The
// parent directory must exist. Storage failures are returned as *WriteError.
func WriteFile(path string, rep *report.Report, resolver rules.Resolver) error {
	data, err := Bytes(rep, resolver)
	if err != nil {
		return err
	}
	return writeReport(path, data)
}

func writeReport(path string, data []byte) error {
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// writeFileAtomic writes into a temp file next to path and renames it into
// place, so readers never see a half-written report.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
