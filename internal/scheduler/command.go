package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"IndexCompare/internal/comparison"
	"IndexCompare/internal/model"
)

var errUsage = errors.New("usage: /compare <index A>, <index B>, <dd-mm-yyyy>, <dd-mm-yyyy>")

// splitCommand separates "/name@bot rest" into "/name" and "rest".
func splitCommand(text string) (name, args string) {
	text = strings.TrimSpace(text)
	name, args, _ = strings.Cut(text, " ")
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}
	return strings.ToLower(name), strings.TrimSpace(args)
}

// ParseCompareArgs parses "<index A>, <index B>, <start>, <end>". Index names keep their case
// and inner spaces; dates use dd-mm-yyyy.
func ParseCompareArgs(args string) (comparison.Request, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 4 {
		return comparison.Request{}, errUsage
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return comparison.Request{}, errUsage
		}
	}

	start, err := model.ParseDate(parts[2])
	if err != nil {
		return comparison.Request{}, fmt.Errorf("%w: start: %v", model.ErrInvalidRange, err)
	}
	end, err := model.ParseDate(parts[3])
	if err != nil {
		return comparison.Request{}, fmt.Errorf("%w: end: %v", model.ErrInvalidRange, err)
	}
	return comparison.Request{IndexA: parts[0], IndexB: parts[1], Start: start, End: end}, nil
}
