package tools

import "github.com/cockroachdb/errors"

var (
	// ErrFailedUnmarshalInput is returned by ITool.Call when the input is not a JSON object.
	ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")
	// ErrMissingField is returned when a required argument is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField is returned when an argument has the wrong shape.
	ErrInvalidField = errors.New("invalid field")
	// ErrUnknownTool is returned for a name that is not in the tool table.
	ErrUnknownTool = errors.New("unknown tool")
)

func missingField(name string) error {
	return errors.Mark(errors.Newf("missing required field: %s", name), ErrMissingField)
}

func invalidField(name string) error {
	return errors.Mark(errors.Newf("invalid field: %s", name), ErrInvalidField)
}

func unknownTool(name string) error {
	//nolint:staticcheck
	return errors.Mark(errors.Newf("Unknown tool: %s", name), ErrUnknownTool)
}
