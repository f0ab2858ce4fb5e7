package shell

import _ "embed"

// installScriptTemplate is the POSIX bootstrap installer rendered by
// Generate. The script mirrors the Go install flow so that piping it
// through sh behaves the same as running the CLI directly.
//
//go:embed install.tmpl.sh
var installScriptTemplate string
