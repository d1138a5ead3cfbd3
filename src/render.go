package src

import (
	"fmt"
	"sort"
	"strings"

	"github.com/datadeck/datadeck/src/ui"
)

// renderTranscript builds the viewport content from the transcript
// snapshot. Tool batches and cards render as bordered blocks; everything
// else is a prefixed line.
func renderTranscript(msgs []Message, st ui.Styles) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch m.Kind {
		case KindUser:
			b.WriteString(st.Accent.Render("You: ") + m.Content + "\n")
		case KindText:
			text := FlattenHTML(m.Content)
			if m.Streaming {
				b.WriteString(st.Subtle.Render("Agent: ") + text)
				b.WriteString(st.Thinking.Render(" ▋"))
				b.WriteByte('\n')
			} else {
				b.WriteString(st.Success.Render("Agent: ") + text + "\n")
			}
		case KindTool:
			b.WriteString(renderToolBlock(m.Calls, st))
		case KindCards:
			b.WriteString(renderCards(m.Cards, st))
		case KindInfo:
			b.WriteString(st.Subtle.Render("ℹ️ "+m.Content) + "\n")
		case KindError:
			b.WriteString(st.Error.Render("❌ "+m.Content) + "\n")
		}
	}
	return b.String()
}

// renderToolBlock lists each call with its arguments in key order.
func renderToolBlock(calls []ToolCall, st ui.Styles) string {
	var b strings.Builder
	b.WriteString(st.ListHeader.Render("🔧 Tool Calls") + "\n")
	for _, call := range calls {
		b.WriteString("  " + st.Accent.Render(call.Name))
		if call.ID != "" {
			b.WriteString(st.Subtle.Render(" ("+call.ID+")"))
		}
		b.WriteByte('\n')
		keys := make([]string, 0, len(call.Args))
		for k := range call.Args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(st.Subtle.Render(fmt.Sprintf("    %s = %v", k, call.Args[k])) + "\n")
		}
	}
	return b.String()
}

func renderCards(cards []VisualCard, st ui.Styles) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(st.ListSelected.Render("▪ "+c.Title) + "\n")
		if c.Subtitle != "" {
			b.WriteString("  " + st.Subtle.Render(c.Subtitle) + "\n")
		}
	}
	return b.String()
}

// renderTree draws the visible mirror, one row per node. cursor is the
// index into Visible(); the row renders inverted when the pane has focus.
func renderTree(tree *Tree, cursor int, focused bool, st ui.Styles) string {
	visible := tree.Visible()
	if len(visible) == 0 {
		return st.Subtle.Render("(no listing yet — /refresh)")
	}

	var b strings.Builder
	for i, vn := range visible {
		n := vn.Node
		line := strings.Repeat("  ", vn.Depth)
		switch {
		case !n.IsDir:
			line += "· " + n.Name
		case n.PendingListing():
			line += "⏳ " + n.Name + "/"
		case n.Expanded:
			line += "▾ " + n.Name + "/"
		default:
			line += "▸ " + n.Name + "/"
		}

		switch {
		case focused && i == cursor:
			line = st.ListSelected.Render(line)
		case n.Highlighted:
			line = st.Highlight.Render(line)
		}
		b.WriteString(line)
		if i < len(visible)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
