// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Dms keeps a dead man's snitch for a host's scheduled antivirus scan.
// Each run performs one action and exits:
//
//	dms -c    create the snitch and save its token (no-op if a token exists)
//	dms -r    check in (the default)
//	dms -p    pause the snitch
//	dms -d    delete the snitch and the token file
//
// The API key and system name come from /etc/dms.conf (CONFIG
// overrides the path); the token lives in /var/lib/dms/token (TOKEN
// overrides it). VERBOSE enables debug logging with full HTTP
// exchanges. Exit status is 0 on success and 1 on any failure.
package main
