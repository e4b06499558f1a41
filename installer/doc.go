// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package installer performs verified skill installs and manages the local
skill lifecycle.

An install walks a fixed state machine: locate the version in the index,
check the revocation list, fetch the archive through an injected callback,
verify the archive hash and signature against the index, dedup against
existing metadata, extract safely, and finally write the metadata sidecar.
The sidecar is the commit marker: every failure path leaves the
filesystem as it was at entry or with only the install directory removed,
never a partial tree with metadata.

Update preserves the user's config file bytes verbatim across the
reinstall; uninstall backs the config up under .backups/ before removing
the directory. The skills directory layout is:

	{skills_dir}/
	  {skill}/
	    .kithkit-meta.json
	    config.json
	  .backups/{skill}/config.bak
	  .cache/index-cache.json
*/
package installer
