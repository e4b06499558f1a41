// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"
)

// ManifestFileName is the manifest every archive must carry.
const ManifestFileName = "manifest.yaml"

// Default size bounds for skill archives. The screener enforces these on
// source trees; extraction treats them as upper bounds against
// decompression bombs. Exposed as variables for test override.
var (
	// MaxFileSize bounds a single file within an archive (1 MiB).
	MaxFileSize int64 = 1 * 1024 * 1024
	// MaxTotalSize bounds the decompressed archive (5 MiB).
	MaxTotalSize int64 = 5 * 1024 * 1024
)

// gzipOSUnknown is the OS value for "unknown" in gzip headers (RFC 1952).
// Using this value keeps archives byte-identical across platforms.
const gzipOSUnknown = 255

// FileEntry is one regular file inside a skill archive.
type FileEntry struct {
	// Name is the basename of the file within the skill directory.
	Name string
	// Content is the file content.
	Content []byte
	// Mode is the file mode (defaults to 0644).
	Mode int64
}

// BuildOptions configures reproducible archive creation.
type BuildOptions struct {
	// Epoch is the timestamp stamped on every entry and the gzip header.
	// Zero means Unix epoch.
	Epoch time.Time
	// Level is the gzip compression level (defaults to gzip.BestCompression).
	Level int
}

// DefaultBuildOptions returns options producing byte-identical archives
// for identical inputs.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Epoch: time.Unix(0, 0).UTC(),
		Level: gzip.BestCompression,
	}
}

// Build creates a reproducible tar.gz archive for a skill. Every entry is
// named "{skillName}/{basename}", entries are sorted by basename, headers
// use the USTAR format with fixed uid/gid and the option epoch, and the
// result is gzipped with fixed header fields.
func Build(skillName string, files []FileEntry, opts BuildOptions) ([]byte, error) {
	if opts.Epoch.IsZero() {
		opts.Epoch = time.Unix(0, 0).UTC()
	}
	if opts.Level == 0 {
		opts.Level = gzip.BestCompression
	}

	sorted := make([]FileEntry, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)

	for _, f := range sorted {
		mode := f.Mode
		if mode == 0 {
			mode = 0644
		}

		hdr := &tar.Header{
			Name:     skillName + "/" + f.Name,
			Size:     int64(len(f.Content)),
			Mode:     mode,
			ModTime:  opts.Epoch,
			Uid:      0,
			Gid:      0,
			Typeflag: tar.TypeReg,
			Format:   tar.FormatUSTAR,
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("writing tar header for %s: %w", f.Name, err)
		}
		if _, err := tw.Write(f.Content); err != nil {
			return nil, fmt.Errorf("writing tar content for %s: %w", f.Name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing tar writer: %w", err)
	}

	var buf bytes.Buffer
	gw, err := gzip.NewWriterLevel(&buf, opts.Level)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}
	gw.ModTime = opts.Epoch
	gw.Name = ""
	gw.Comment = ""
	gw.OS = gzipOSUnknown

	if _, err := gw.Write(tarBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("writing gzip data: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// ExtractManifest decompresses the archive in memory, walks the entry
// stream, and returns the raw manifest.yaml bytes without touching disk.
func ExtractManifest(data []byte) ([]byte, error) {
	tr, err := tarReader(data)
	if err != nil {
		return nil, err
	}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, headerError(err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if path.Base(hdr.Name) != ManifestFileName {
			continue
		}
		content, err := readEntry(tr, hdr)
		if err != nil {
			return nil, err
		}
		return content, nil
	}

	return nil, &ExtractError{Kind: KindBadHeader, Path: ManifestFileName, Err: fmt.Errorf("archive has no %s", ManifestFileName)}
}

// List extracts all regular-file entries in memory, enforcing per-file and
// total size bounds. Link, device, and other non-file entry types are
// rejected. Entry names keep the skill-name prefix stripped.
func List(data []byte) ([]FileEntry, error) {
	tr, err := tarReader(data)
	if err != nil {
		return nil, err
	}

	var files []FileEntry
	var total int64

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, headerError(err)
		}

		if err := validateEntryName(hdr.Name); err != nil {
			return nil, err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			continue
		case tar.TypeSymlink, tar.TypeLink:
			return nil, &ExtractError{Kind: KindBadHeader, Path: hdr.Name, Err: fmt.Errorf("disallowed link entry")}
		case tar.TypeReg:
			// fall through to read
		default:
			return nil, &ExtractError{Kind: KindBadHeader, Path: hdr.Name, Err: fmt.Errorf("disallowed entry type %d", hdr.Typeflag)}
		}

		if hdr.Size > MaxFileSize {
			return nil, &ExtractError{Kind: KindBadHeader, Path: hdr.Name, Err: fmt.Errorf("file exceeds %d byte limit", MaxFileSize)}
		}
		total += hdr.Size
		if total > MaxTotalSize {
			return nil, &ExtractError{Kind: KindBadHeader, Path: hdr.Name, Err: fmt.Errorf("archive exceeds %d byte total limit", MaxTotalSize)}
		}

		content, err := readEntry(tr, hdr)
		if err != nil {
			return nil, err
		}

		name := stripSkillPrefix(hdr.Name)
		if name == "" {
			continue
		}
		files = append(files, FileEntry{Name: name, Content: content, Mode: hdr.Mode})
	}

	return files, nil
}

// tarReader decompresses the gzip layer with a bomb guard and returns a
// tar reader over the result.
func tarReader(data []byte) (*tar.Reader, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ExtractError{Kind: KindBadHeader, Err: fmt.Errorf("reading gzip header: %w", err)}
	}
	defer func() { _ = gr.Close() }()

	limited := io.LimitReader(gr, MaxTotalSize+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, &ExtractError{Kind: KindTruncated, Err: fmt.Errorf("decompressing archive: %w", err)}
	}
	if int64(len(raw)) > MaxTotalSize {
		return nil, &ExtractError{Kind: KindBadHeader, Err: fmt.Errorf("decompressed archive exceeds %d byte limit", MaxTotalSize)}
	}
	// A tar stream is a whole number of 512-byte blocks; a partial block
	// means the stream was cut off mid-entry.
	const blockSize = 512
	if len(raw)%blockSize != 0 {
		return nil, &ExtractError{Kind: KindTruncated, Err: fmt.Errorf("tar stream of %d bytes is not a whole number of %d-byte blocks", len(raw), blockSize)}
	}

	return tar.NewReader(bytes.NewReader(raw)), nil
}

func readEntry(tr *tar.Reader, hdr *tar.Header) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(tr, hdr.Size+1))
	if err != nil {
		return nil, &ExtractError{Kind: KindTruncated, Path: hdr.Name, Err: err}
	}
	if int64(len(content)) != hdr.Size {
		return nil, &ExtractError{Kind: KindTruncated, Path: hdr.Name, Err: fmt.Errorf("entry shorter than declared size")}
	}
	return content, nil
}

func headerError(err error) error {
	if err == io.ErrUnexpectedEOF {
		return &ExtractError{Kind: KindTruncated, Err: err}
	}
	return &ExtractError{Kind: KindBadHeader, Err: err}
}

// validateEntryName rejects absolute names and ".." components.
func validateEntryName(name string) error {
	if strings.HasPrefix(name, "/") {
		return &ExtractError{Kind: KindPathTraversal, Path: name}
	}
	for _, component := range strings.Split(name, "/") {
		if component == ".." {
			return &ExtractError{Kind: KindPathTraversal, Path: name}
		}
	}
	return nil
}

// stripSkillPrefix removes the leading skill-name component. The empty
// string means the entry was the top-level directory itself.
func stripSkillPrefix(name string) string {
	name = strings.TrimSuffix(name, "/")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return ""
}
