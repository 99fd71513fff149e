// Package uploads keeps user supplied files (plant photos) under a local root and
// hands out references of the form /uploads/<name>.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"liyu1981.xyz/plant-monitor-service/pkg/common"
)

const URLPrefix = "/uploads/"

type Dir struct {
	Root string
}

func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &Dir{Root: root}, nil
}

func Reference(name string) string {
	return URLPrefix + name
}

// Owns reports whether ref points into this store, as opposed to a placeholder or external URL.
func (d *Dir) Owns(ref string) bool {
	_, ok := nameOf(ref)
	return ok
}

func nameOf(ref string) (string, bool) {
	if !strings.HasPrefix(ref, URLPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(ref, URLPrefix)
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", false
	}
	return name, true
}

func (d *Dir) Save(name string, body io.Reader) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", common.Validationf("invalid upload name %q", name)
	}

	f, err := os.Create(filepath.Join(d.Root, name))
	if err != nil {
		return "", common.ExternalError("create upload", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", common.ExternalError("write upload", err)
	}
	if err := f.Close(); err != nil {
		return "", common.ExternalError("close upload", err)
	}
	return Reference(name), nil
}

func (d *Dir) Exists(ref string) bool {
	name, ok := nameOf(ref)
	if !ok {
		return false
	}
	_, err := os.Stat(filepath.Join(d.Root, name))
	return err == nil
}

func (d *Dir) Delete(ref string) error {
	name, ok := nameOf(ref)
	if !ok {
		return common.Validationf("not an upload reference %q", ref)
	}
	if err := os.Remove(filepath.Join(d.Root, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return common.NotFoundf("upload %s", name)
		}
		return common.ExternalError("delete upload", err)
	}
	return nil
}
