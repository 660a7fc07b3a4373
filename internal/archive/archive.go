// SPDX-License-Identifier: MPL-2.0

// Package archive handles the zip container of a presentation package:
// extracting an archive into a working directory tree and writing a tree
// back out as an archive. Entry names always use forward slashes, as the
// package format requires, regardless of host path conventions.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadError reports an input that could not be opened or read as an archive.
type ReadError struct {
	// Path is the archive that failed to read.
	Path string
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("read archive %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying failure.
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports an output archive that could not be created or written.
type WriteError struct {
	// Path is the archive that failed to write.
	Path string
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write archive %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying failure.
func (e *WriteError) Unwrap() error { return e.Err }

// Extract unpacks every entry of the archive into destDir, preserving
// relative paths. Entries that would escape destDir are rejected.
func Extract(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return &ReadError{Path: archivePath, Err: err}
	}
	defer reader.Close()

	absDestDir, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("failed to resolve destination directory: %w", err)
	}
	if err := os.MkdirAll(absDestDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	for _, file := range reader.File {
		destPath := filepath.Join(absDestDir, filepath.FromSlash(file.Name))

		// Validate the entry doesn't escape the destination (zip-slip).
		relPath, err := filepath.Rel(absDestDir, destPath)
		if err != nil || strings.HasPrefix(relPath, "..") {
			return &ReadError{Path: archivePath, Err: fmt.Errorf("invalid entry path: %s", file.Name)}
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return fmt.Errorf("failed to create parent directory: %w", err)
		}
		if err := extractFile(file, destPath); err != nil {
			return &ReadError{Path: archivePath, Err: fmt.Errorf("extract %s: %w", file.Name, err)}
		}
	}

	return nil
}

// extractFile copies one archive entry to destPath.
func extractFile(file *zip.File, destPath string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, rc)
	return err
}

// Create walks srcDir and writes every file as a compressed entry with a
// path relative to the tree root. A failure removes the partial output so
// the caller never observes a half-written archive.
func Create(srcDir, destPath string) error {
	zipFile, err := os.Create(destPath)
	if err != nil {
		return &WriteError{Path: destPath, Err: err}
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()

	err = filepath.WalkDir(srcDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		fileInfo, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info: %w", err)
		}

		header, err := zip.FileInfoHeader(fileInfo)
		if err != nil {
			return fmt.Errorf("failed to create file header: %w", err)
		}
		header.Name = filepath.ToSlash(relPath)
		header.Method = zip.Deflate

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("failed to write entry data: %w", err)
		}
		return nil
	})

	if err != nil {
		zipWriter.Close()
		zipFile.Close()
		os.Remove(destPath)
		return &WriteError{Path: destPath, Err: err}
	}

	if err := zipWriter.Close(); err != nil {
		zipFile.Close()
		os.Remove(destPath)
		return &WriteError{Path: destPath, Err: err}
	}
	return zipFile.Close()
}
