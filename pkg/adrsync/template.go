package adrsync

import (
	"fmt"
	"os"
)

// Template is the ADR-000 content, read once and shared by every run
type Template struct {
	path string
	data []byte
}

// LoadTemplate reads the template file. A missing or non-regular file is a
// PreconditionError.
func LoadTemplate(path string) (*Template, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PreconditionError{Path: path, Reason: "template file not found", Err: err}
		}
		return nil, &PreconditionError{Path: path, Reason: "template file not accessible", Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &PreconditionError{Path: path, Reason: "template is not a regular file"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PreconditionError{Path: path, Reason: "template file not readable", Err: err}
	}

	return &Template{path: path, data: data}, nil
}

// NewTemplate wraps in-memory template content
func NewTemplate(data []byte) *Template {
	return &Template{path: "<memory>", data: append([]byte(nil), data...)}
}

// Path returns where the template was read from
func (t *Template) Path() string {
	return t.path
}

// Bytes returns a copy of the template content
func (t *Template) Bytes() []byte {
	return append([]byte(nil), t.data...)
}

// Len returns the template size in bytes
func (t *Template) Len() int {
	return len(t.data)
}

func (t *Template) String() string {
	return fmt.Sprintf("%s (%d bytes)", t.path, len(t.data))
}
