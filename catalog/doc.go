// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package catalog builds, verifies, and queries the signed skill index and
the revocation list.

The index is a single JSON document listing every published skill and all
of its versions. The catalog authority signs the document body (the index
minus its signature field) over its canonical JSON form, and signs each
archive's SHA-256 digest individually, so clients can verify the index
once and then verify each downloaded archive independently.

Determinism is the load-bearing property here: skills sort by name,
capabilities and tags sort within each entry, and serialization is
canonical, so two builds over equal archive sets with the same timestamp
produce byte-identical output. Incremental updates preserve untouched
version records verbatim, signatures included.

The revocation list is a separately signed, append-only list of
(name, version) pairs. Clients re-fetch and re-verify it on every install
decision; IsRevoked is an exact match on both fields.
*/
package catalog
