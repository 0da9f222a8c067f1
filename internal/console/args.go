package console

import (
	"errors"
	"fmt"

	"github.com/kballard/go-shellquote"
)

var errUnterminatedQuote = errors.New("unterminated quote or escape")

// splitArgs splits a command line with POSIX shell quoting rules. Blank lines
// yield no arguments.
func splitArgs(line string) ([]string, error) {
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnterminatedQuote, err)
	}
	if len(args) == 0 {
		return nil, nil
	}
	return args, nil
}
