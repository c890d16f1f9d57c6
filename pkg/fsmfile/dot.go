package fsmfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/fsm-logic/pkg/fsm"
)

// GenerateDOT converts a machine to Graphviz DOT. State positions are
// emitted as pinned pos attributes so neato -n reproduces the layout.
func GenerateDOT(f *fsm.FSM, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph FSM {\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, shape=circle];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	for _, s := range f.States() {
		label := fmt.Sprintf("%s\\n%d", escapeDOT(s.Name()), s.Number())
		if out := s.ValuesString(); out != "" {
			label += "\\n" + escapeDOT(out)
		}
		// DOT's y axis points up
		pos := s.Position()
		y := -pos.Y
		if y == 0 {
			y = 0 // no "-0"
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\", pos=\"%.0f,%.0f!\"];\n",
			escapeDOT(s.Name()), label, pos.X, y))
	}
	sb.WriteString("\n")

	for _, t := range f.Transitions() {
		sb.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\"", escapeDOT(t.From().Name()), escapeDOT(t.To().Name())))
		if label := t.Label(); label != "" {
			sb.WriteString(fmt.Sprintf(" [label=\"%s\"]", escapeDOT(label)))
		}
		sb.WriteString(";\n")
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
