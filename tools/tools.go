package tools

import (
	"fmt"
	"strings"

	"github.com/hupe1980/toolagent/tool"
)

func fsError(name string, err error) *tool.ToolError {
	return tool.NewToolError(name, err.Error(), "FS_ERROR")
}

// checkEncoding rejects every encoding argument other than utf-8. A missing
// argument means utf-8.
func checkEncoding(name string, args tool.Args) error {
	enc, _ := args.String("encoding")

	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", "utf-8", "utf8":
		return nil
	default:
		return tool.NewToolError(name, fmt.Sprintf("unsupported encoding %q, only utf-8 is supported", enc), "UNSUPPORTED_ENCODING")
	}
}
