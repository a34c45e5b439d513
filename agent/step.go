package agent

import "github.com/hupe1980/toolagent/tool"

// Action is the tool invocation chosen in a step.
type Action struct {
	ToolName string    `json:"tool_name"`
	Args     tool.Args `json:"args"`
}

// Step is one completed iteration of the loop. Steps are never mutated once
// recorded.
type Step struct {
	Question string      `json:"question"`
	Action   Action      `json:"action"`
	Result   tool.Return `json:"result"`
}

// Serialize returns the step as nested maps.
func (s Step) Serialize() map[string]any {
	args := map[string]any{}
	for k, v := range s.Action.Args {
		args[k] = v
	}

	return map[string]any{
		"question": s.Question,
		"action": map[string]any{
			"tool_name": s.Action.ToolName,
			"args":      args,
		},
		"result": s.Result.Map(),
	}
}

func serializeSteps(steps []Step) []map[string]any {
	out := make([]map[string]any, len(steps))
	for i, s := range steps {
		out[i] = s.Serialize()
	}
	return out
}
