// Package agent implements ToolUser, an agent that answers a question by
// letting a chat model drive a loop over a fixed set of tools.
//
// Each iteration of the loop:
//
//  1. asks the next step thinker whether the main question is answered
//     (skipped before the first step)
//  2. asks the tool chooser for a tool (skipped with a single tool)
//  3. asks the arg chooser for the arguments (skipped without parameters)
//  4. asks the selected tool for human confirmation
//  5. executes the tool and records a Step
//
// The loop ends with a final answer (exit code 0) or when MaxSteps or
// MaxDuration is exhausted (exit code 1 with the last output). Progress is
// published on an event.Bus as agent_start, agent_step, agent_end and
// agent_timeout events.
//
// A ToolUser is itself a tool.Tool with a single "question" parameter, so
// agents nest.
package agent
