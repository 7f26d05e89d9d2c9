package query

import (
	"github.com/vango-dev/hive/internal/errors"
)

// OpenArgs is the parsed form of an open call's positional arguments.
type OpenArgs struct {
	Module    string
	Query     any
	Component any
}

// ParseOpenArgs accepts (query, component) or (modulePath, query,
// component). A leading string is always a module path; otherwise the path
// defaults to "" (the receiver). The component may be omitted.
func ParseOpenArgs(args ...any) (OpenArgs, error) {
	if len(args) == 0 {
		return OpenArgs{}, errors.New("H012").WithDetail("no arguments")
	}

	var out OpenArgs
	if path, ok := args[0].(string); ok {
		out.Module = path
		args = args[1:]
		if len(args) == 0 {
			return OpenArgs{}, errors.New("H012").WithDetailf("module path %q given without a query", path)
		}
	}

	switch len(args) {
	case 1:
		out.Query = args[0]
	case 2:
		out.Query = args[0]
		out.Component = args[1]
	default:
		return OpenArgs{}, errors.New("H012").WithDetailf("too many arguments (%d)", len(args))
	}
	return out, nil
}
