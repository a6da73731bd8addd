// Package pathparse turns path expressions like "projects[0].root" into an
// ordered sequence of access steps.
package pathparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cmunro/confpath/internal/errors"
	"github.com/cmunro/confpath/internal/models"
)

// Parse tokenizes a path expression into steps. A path is a dot-separated
// sequence of segments, each of the form name followed by zero or more
// bracketed indices, e.g. "a[3].foo.bar[2]". Empty segment names are filtered,
// so consecutive dots and leading-bracket segments like "[0].name" are
// tolerated. Malformed brackets or non-numeric indices fail with a path error.
func Parse(path string) (models.Path, error) {
	if path == "" {
		return models.Path{}, nil
	}

	steps := models.Path{}
	for _, segment := range strings.Split(path, ".") {
		segSteps, err := parseSegment(segment)
		if err != nil {
			return nil, err
		}
		steps = append(steps, segSteps...)
	}
	return steps, nil
}

// parseSegment splits one dot-delimited segment into a key step for its name
// (skipped when the name is empty) and one index step per bracket group.
func parseSegment(segment string) ([]models.Step, error) {
	if segment == "" {
		return nil, nil
	}

	name := segment
	rest := ""
	if i := strings.IndexByte(segment, '['); i != -1 {
		name = segment[:i]
		rest = segment[i:]
	}
	if strings.IndexByte(name, ']') != -1 {
		return nil, errors.NewPathError(
			fmt.Sprintf("unexpected ']' in segment %q", segment),
			errors.ErrInvalidPath,
		)
	}

	var steps []models.Step
	if name != "" {
		steps = append(steps, models.Key(name))
	}

	for rest != "" {
		if rest[0] != '[' {
			return nil, errors.NewPathError(
				fmt.Sprintf("unexpected text %q after index in segment %q", rest, segment),
				errors.ErrInvalidPath,
			)
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return nil, errors.NewPathError(
				fmt.Sprintf("unbalanced '[' in segment %q", segment),
				errors.ErrInvalidPath,
			)
		}
		index, err := strconv.ParseUint(rest[1:end], 10, 31)
		if err != nil {
			return nil, errors.NewPathError(
				fmt.Sprintf("index %q in segment %q is not a non-negative integer", rest[1:end], segment),
				errors.ErrInvalidPath,
			)
		}
		steps = append(steps, models.Index(int(index)))
		rest = rest[end+1:]
	}

	return steps, nil
}
