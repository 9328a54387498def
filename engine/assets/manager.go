package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// Manager resolves game files. The resource root is <app>/res when that
// directory exists and <app> otherwise; assets live under <root>/assets.
type Manager struct {
	Root      string
	AssetsDir string
}

// NewManager roots the manager at the working directory.
func NewManager() (*Manager, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working dir: %w", err)
	}
	return NewManagerAt(wd), nil
}

func NewManagerAt(appRoot string) *Manager {
	root := appRoot
	if fi, err := os.Stat(filepath.Join(appRoot, "res")); err == nil && fi.IsDir() {
		root = filepath.Join(appRoot, "res")
	}
	return &Manager{Root: root, AssetsDir: filepath.Join(root, "assets")}
}

// Path returns the absolute path of an asset.
func (m *Manager) Path(rel string) string {
	return filepath.Join(m.AssetsDir, filepath.FromSlash(rel))
}

// Open opens an asset for reading.
func (m *Manager) Open(rel string) (*os.File, error) {
	f, err := os.Open(m.Path(rel))
	if err != nil {
		return nil, fmt.Errorf("open asset %q: %w", rel, err)
	}
	return f, nil
}

func (m *Manager) ReadFile(rel string) ([]byte, error) {
	b, err := os.ReadFile(m.Path(rel))
	if err != nil {
		return nil, fmt.Errorf("read asset %q: %w", rel, err)
	}
	return b, nil
}

// LoadFont reads a font file from the font directory.
func (m *Manager) LoadFont(name string) ([]byte, error) {
	return m.ReadFile(filepath.Join("font", name))
}

// LoadShader reads a GLSL file into a null-terminated string for OpenGL.
func (m *Manager) LoadShader(name string) (string, error) {
	b, err := m.ReadFile(filepath.Join("shaders", name))
	if err != nil {
		return "", err
	}
	if len(b) == 0 || b[len(b)-1] != 0 {
		b = append(b, 0)
	}
	return string(b), nil
}
