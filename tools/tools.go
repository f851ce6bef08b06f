package tools

import (
	"context"

	"github.com/effective-security/webscraping-mcp/utils"
)

//go:generate mockgen -source=tools.go -destination=../mocks/mocktools/tools_mock.gen.go  -package mocktools

// ITool is a tool exposed to MCP clients and agents.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	Description() string
	// Parameters returns the JSON schema of the tool input.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the result text.
	// If the tool fails to parse the input, it returns ErrFailedUnmarshalInput error.
	Call(context.Context, string) (string, error)
}

// Callback receives the tool call events from the Router.
type Callback interface {
	OnToolStart(ctx context.Context, tool ITool, input string)
	OnToolEnd(ctx context.Context, tool ITool, input string, output string)
	OnToolError(ctx context.Context, tool ITool, input string, err error)
	OnToolNotFound(ctx context.Context, name string)
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

func describe(list []ITool) toolsDescription {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return d
}

// GetDescriptions returns the names and descriptions of the tools
// as a fenced JSON block.
func GetDescriptions(list ...ITool) string {
	return utils.BackticksJSON(utils.ToJSONIndent(describe(list)))
}

// GetDescriptionsYAML returns the names and descriptions of the tools as YAML.
func GetDescriptionsYAML(list ...ITool) string {
	return utils.ToYAML(describe(list))
}
