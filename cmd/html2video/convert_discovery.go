package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	html2video "github.com/alnah/go-html2video"
	"github.com/alnah/go-html2video/internal/fileutil"
)

// Sentinel errors for input discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .html or .htm extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoHTMLFiles        = errors.New("no HTML files found")
)

// inlineOutputPrefix names outputs of inline sources.
const inlineOutputPrefix = "capture"

// FileToConvert represents a single source to process.
// Exactly one of InputPath and HTML is set.
type FileToConvert struct {
	InputPath  string // file path or URL
	HTML       string // inline markup
	OutputPath string // extension is corrected by the library
}

// Label returns a short name for result output.
func (f FileToConvert) Label() string {
	if f.HTML != "" {
		return "<inline>"
	}
	return f.InputPath
}

// discoverFiles finds all HTML files to convert under inputPath.
// A URL yields a single job.
func discoverFiles(inputPath, outputDir string, format html2video.Format) ([]FileToConvert, error) {
	if fileutil.IsURL(inputPath) {
		outPath := resolveURLOutputPath(inputPath, outputDir, format)
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateHTMLExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", format)
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsHTMLFile(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, format)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the video output path for an HTML file.
// Directory inputs mirror their relative layout under outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string, format html2video.Format) string {
	name := fileutil.TrimExt(inputPath) + format.Extension()

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	// A single file with an explicit video file name as output
	if baseInputDir == "" && hasVideoExtension(outputDir) {
		return html2video.ResolveOutputPath(outputDir, format)
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// resolveURLOutputPath names the output after the last path segment of
// rawURL, falling back to the host and then to the default base name.
func resolveURLOutputPath(rawURL, outputDir string, format html2video.Format) string {
	if outputDir != "" && hasVideoExtension(outputDir) {
		return html2video.ResolveOutputPath(outputDir, format)
	}

	base := html2video.DefaultOutputBase
	if u, err := url.Parse(rawURL); err == nil {
		if seg := path.Base(u.Path); seg != "." && seg != "/" && seg != "" {
			base = strings.TrimSuffix(seg, path.Ext(seg))
		} else if u.Hostname() != "" {
			base = u.Hostname()
		}
	}

	return filepath.Join(outputDir, base+format.Extension())
}

// inlineOutputPath returns a time-unique output path for inline markup,
// such as "capture-20260102-150405-1a2b3c4d.mp4". An explicit output file
// name wins.
func inlineOutputPath(outputDir string, now time.Time, format html2video.Format) string {
	if outputDir != "" && hasVideoExtension(outputDir) {
		return html2video.ResolveOutputPath(outputDir, format)
	}
	id := strings.SplitN(uuid.NewString(), "-", 2)[0]
	name := fmt.Sprintf("%s-%s-%s%s", inlineOutputPrefix, now.Format("20060102-150405"), id, format.Extension())
	return filepath.Join(outputDir, name)
}

// hasVideoExtension reports whether p names an output file rather than a directory.
func hasVideoExtension(p string) bool {
	ext := filepath.Ext(p)
	if ext == "" {
		return false
	}
	_, err := html2video.ParseFormat(ext)
	return err == nil
}

// validateHTMLExtension checks that the file has a .html or .htm extension.
func validateHTMLExtension(path string) error {
	if !fileutil.IsHTMLFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > html2video.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, html2video.MaxPoolSize)
	}
	return nil
}
