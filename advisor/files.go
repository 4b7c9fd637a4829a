package advisor

import (
	"fmt"
	"io"
)

// MeasureFile reads r to the end and describes it. The caller still owns
// r and must close it.
func MeasureFile(name, contentType string, r io.Reader) (FileDescriptor, error) {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return FileDescriptor{}, fmt.Errorf("read %s: %w", name, err)
	}
	return FileDescriptor{Name: name, Size: n, ContentType: contentType}, nil
}
