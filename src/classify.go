package src

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ToolCall is one structured tool invocation record emitted by the agent.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
	ID   string         `json:"id,omitempty"`
}

// Classify decides whether a stream fragment encodes a serialized batch of
// tool calls rather than prose. Two passes: a strict decode of the fragment
// as-is, then a lenient decode that rewrites the Python-literal dialect some
// agent stacks emit (single quotes, None/True/False). A nil result means
// "treat as prose"; classification never fails.
func Classify(fragment string) []ToolCall {
	if calls := strictDecode(fragment); calls != nil {
		return calls
	}
	return lenientDecode(fragment)
}

// strictDecode accepts only a non-empty array of records whose first element
// carries a name.
func strictDecode(fragment string) []ToolCall {
	var calls []ToolCall
	if err := json.Unmarshal([]byte(fragment), &calls); err != nil {
		return nil
	}
	if len(calls) == 0 || strings.TrimSpace(calls[0].Name) == "" {
		return nil
	}
	return calls
}

var pyTokenRe = regexp.MustCompile(`\b(None|True|False)\b`)

// lenientDecode rewrites Python literal tokens to their JSON equivalents and,
// when the fragment looks like a single-quoted list of records or strings,
// swaps every single quote for a double quote before retrying the strict
// decode. The quote swap is a global text replacement: payloads whose string
// values legitimately contain apostrophes come out corrupted and fail the
// retry. Known limitation, kept for parity with the dialect itself.
func lenientDecode(fragment string) []ToolCall {
	rewritten := pyTokenRe.ReplaceAllStringFunc(fragment, func(tok string) string {
		switch tok {
		case "None":
			return "null"
		case "True":
			return "true"
		default:
			return "false"
		}
	})
	if looksSingleQuoted(rewritten) {
		rewritten = strings.ReplaceAll(rewritten, "'", `"`)
	}
	return strictDecode(rewritten)
}

func looksSingleQuoted(fragment string) bool {
	t := strings.TrimSpace(fragment)
	return strings.HasPrefix(t, "[{") || strings.HasPrefix(t, "['") || strings.Contains(t, "{'")
}
