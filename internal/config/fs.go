package config

import "os"

// FileSystem reads configuration files. Tests substitute an in-memory one.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// FileSystemFunc adapts a function to FileSystem.
type FileSystemFunc func(path string) ([]byte, error)

// ReadFile calls f.
func (f FileSystemFunc) ReadFile(path string) ([]byte, error) { return f(path) }

// DefaultFS returns a FileSystem backed by the operating system.
func DefaultFS() FileSystem {
	return FileSystemFunc(os.ReadFile)
}
