// Package source turns the command-line source arguments into the list of
// statement files to parse, extracting zip archives into temporary directories.
package source

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/camt-qif/internal/fileutils"
	"fjacquet/camt-qif/internal/logging"
)

const xmlExtension = ".xml"

// Collector enumerates statement files. It remembers the temporary directories
// it creates and the source arguments it consumed.
type Collector struct {
	logger   logging.Logger
	tempDirs []string
	consumed []string
}

// NewCollector creates a Collector.
func NewCollector(logger logging.Logger) *Collector {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Collector{logger: logger}
}

// Collect returns the XML statement files designated by sources, in argument
// order. Zip archives are extracted and contribute their XML members sorted by
// name. Files that are neither are skipped with a warning; missing paths fail.
func (c *Collector) Collect(sources []string) ([]string, error) {
	var files []string

	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src, err)
		}
		if info.IsDir() {
			c.logger.Warn("Skipping directory source", logging.Field{Key: logging.FieldSource, Value: src})
			continue
		}

		extracted, isZip, err := c.extract(src)
		if err != nil {
			return nil, err
		}
		if isZip {
			files = append(files, extracted...)
			c.consumed = append(c.consumed, src)
			continue
		}

		if !fileutils.HasExtension(src, xmlExtension) {
			c.logger.Warn("Skipping unsupported source, only CAMT.053 XML and zip archives are read",
				logging.Field{Key: logging.FieldSource, Value: src})
			continue
		}
		files = append(files, src)
		c.consumed = append(c.consumed, src)
	}

	c.logger.Debug("Sources collected",
		logging.Field{Key: logging.FieldCount, Value: len(files)})
	return files, nil
}

// Consumed returns the source arguments that contributed statement files.
func (c *Collector) Consumed() []string {
	out := make([]string, len(c.consumed))
	copy(out, c.consumed)
	return out
}

// Prune deletes the consumed source arguments.
func (c *Collector) Prune() error {
	if err := fileutils.RemoveFiles(c.consumed); err != nil {
		return fmt.Errorf("failed to prune sources: %w", err)
	}
	for _, src := range c.consumed {
		c.logger.Info("Source removed", logging.Field{Key: logging.FieldSource, Value: src})
	}
	c.consumed = nil
	return nil
}

// Cleanup removes every temporary directory created by Collect.
func (c *Collector) Cleanup() error {
	var errs []error
	for _, dir := range c.tempDirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}
	c.tempDirs = nil
	return errors.Join(errs...)
}

// extract unpacks src when it is a zip archive and returns its XML members.
func (c *Collector) extract(src string) ([]string, bool, error) {
	archive, err := zip.OpenReader(src)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, false, nil
		}
		if errors.Is(err, zip.ErrInsecurePath) {
			if archive != nil {
				_ = archive.Close()
			}
			return nil, true, fmt.Errorf("failed to open archive %s: illegal path in archive: %w", src, err)
		}
		return nil, false, fmt.Errorf("failed to open archive %s: %w", src, err)
	}
	defer func() {
		if err := archive.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close archive", logging.Field{Key: logging.FieldSource, Value: src})
		}
	}()

	dir, err := os.MkdirTemp("", "camt-qif_")
	if err != nil {
		return nil, true, fmt.Errorf("failed to create extraction directory: %w", err)
	}
	c.tempDirs = append(c.tempDirs, dir)

	var files []string
	for _, member := range archive.File {
		if member.FileInfo().IsDir() {
			continue
		}
		if !fileutils.HasExtension(member.Name, xmlExtension) {
			c.logger.Warn("Skipping non-XML archive member",
				logging.Field{Key: logging.FieldSource, Value: src},
				logging.Field{Key: logging.FieldFile, Value: member.Name})
			continue
		}

		target, err := extractMember(dir, member)
		if err != nil {
			return nil, true, fmt.Errorf("failed to extract %s from %s: %w", member.Name, src, err)
		}
		files = append(files, target)
	}
	sort.Strings(files)

	c.logger.Debug("Archive extracted",
		logging.Field{Key: logging.FieldSource, Value: src},
		logging.Field{Key: logging.FieldCount, Value: len(files)})
	return files, true, nil
}

func extractMember(dir string, member *zip.File) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(member.Name))
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal path in archive: %s", member.Name)
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(target)); err != nil {
		return "", err
	}

	in, err := member.Open()
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", err
	}
	return target, out.Close()
}
