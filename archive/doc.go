// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package archive builds and unpacks skill archives.

A skill archive is a gzipped USTAR tar file with a single top-level
directory equal to the skill name, containing at minimum manifest.yaml and
SKILL.md. Archives are built reproducibly: entries sorted, timestamps
pinned to an epoch, gzip header fields fixed, so identical inputs produce
byte-identical archives and therefore stable signatures.

Extraction is defensive. Entries with absolute names, ".." components, or
resolved paths outside the target directory abort with an ExtractError of
kind path-traversal; symlinks, hardlinks, and device entries never produce
files; decompression is bounded to guard against archive bombs. Callers
that receive an error are responsible for removing the partially
populated target directory.
*/
package archive
