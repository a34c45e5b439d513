// Package tools provides ready-made tools for a ToolUser: a shell terminal,
// file system operations and plain HTTP requests.
//
// Every constructor accepts the same functional options as tool.New, so tools
// share the caller's event bus, logger and confirmer. Failures that belong to
// the task (missing files, non-zero exit codes, unreachable hosts) are returned
// as *tool.ToolError and surface to the agent as exit code 1.
package tools
