package chart

import "errors"

const Usage = "Expected arguments: -o <output_path> -t <title>"

var ErrUsage = errors.New("invalid arguments")

// Args are the positional command line arguments of the renderer.
type Args struct {
	Output string
	Title  string
}

// ParseArgs accepts exactly "-o <output_path> -t <title>" at fixed
// positions (program name excluded). Trailing arguments are ignored.
func ParseArgs(args []string) (Args, error) {
	if len(args) < 4 || args[0] != "-o" || args[2] != "-t" {
		return Args{}, ErrUsage
	}
	return Args{Output: args[1], Title: args[3]}, nil
}
