package codegen

import (
	"fmt"
	"strings"
)

// GenerateGo generates a Go implementation of the machine. The generated
// code is a lookup table indexed by state and inputs, compatible with both
// standard Go and TinyGo.
func GenerateGo(m *Machine, packageName string) string {
	var sb strings.Builder
	typeName := toPascalCase(m.Name)
	if m.Name == "" {
		typeName = "FSM"
	}
	lower := strings.ToLower(typeName[:1]) + typeName[1:]
	if m.Name == "" {
		lower = "fsm"
	}
	if packageName == "" {
		packageName = "fsm"
	}

	sb.WriteString(fmt.Sprintf(`// Code generated from FSM truth table. DO NOT EDIT.
// FSM: %s

package %s

`, m.Name, packageName))

	sb.WriteString(fmt.Sprintf("// %sState is an encoded state.\n", typeName))
	sb.WriteString(fmt.Sprintf("type %sState uint32\n\n", typeName))
	sb.WriteString("const (\n")
	for _, s := range m.States {
		sb.WriteString(fmt.Sprintf("\t%sState%s %sState = %d\n", typeName, toPascalCase(s.Name), typeName, s.Number))
	}
	sb.WriteString(")\n\n")

	if len(m.Inputs) > 0 {
		sb.WriteString("// Input bits accepted by Step.\n")
		sb.WriteString("const (\n")
		for i, in := range m.Inputs {
			sb.WriteString(fmt.Sprintf("\t%sInput%s uint32 = 0x%x\n", typeName, toPascalCase(in), m.InputMask(i)))
		}
		sb.WriteString(")\n\n")
	}

	if len(m.Outputs) > 0 {
		sb.WriteString("// Output bits returned by Outputs.\n")
		sb.WriteString("const (\n")
		for i, out := range m.Outputs {
			sb.WriteString(fmt.Sprintf("\t%sOutput%s uint32 = 0x%x\n", typeName, toPascalCase(out), m.OutputMask(i)))
		}
		sb.WriteString(")\n\n")
	}

	sb.WriteString("const (\n")
	sb.WriteString(fmt.Sprintf("\t%sInputBits  = %d\n", lower, len(m.Inputs)))
	sb.WriteString(fmt.Sprintf("\t%sOutputBits = %d\n", lower, len(m.Outputs)))
	sb.WriteString(")\n\n")

	sb.WriteString(fmt.Sprintf("// %sTable maps state<<%sInputBits | inputs to the next state and the\n", lower, lower))
	sb.WriteString("// outputs of the current state. Unused encodings map to 0.\n")
	sb.WriteString(fmt.Sprintf("var %sTable = [...]uint32{\n", lower))
	sb.WriteString(hexWords(m.Packed(), 8, "\t"))
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("// %s is the state machine.\n", typeName))
	sb.WriteString(fmt.Sprintf("type %s struct {\n", typeName))
	sb.WriteString(fmt.Sprintf("\tstate %sState\n", typeName))
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("// New%s creates a machine in its initial state.\n", typeName))
	sb.WriteString(fmt.Sprintf("func New%s() *%s {\n", typeName, typeName))
	sb.WriteString(fmt.Sprintf("\treturn &%s{state: %sState%s}\n", typeName, typeName, toPascalCase(m.Initial.Name)))
	sb.WriteString("}\n\n")

	sb.WriteString("// State returns the current state.\n")
	sb.WriteString(fmt.Sprintf("func (f *%s) State() %sState {\n", typeName, typeName))
	sb.WriteString("\treturn f.state\n")
	sb.WriteString("}\n\n")

	sb.WriteString("// Step clocks the machine once with the given input bits.\n")
	sb.WriteString(fmt.Sprintf("func (f *%s) Step(inputs uint32) %sState {\n", typeName, typeName))
	sb.WriteString(fmt.Sprintf("\trow := uint32(f.state)<<%sInputBits | inputs&(1<<%sInputBits-1)\n", lower, lower))
	sb.WriteString(fmt.Sprintf("\tf.state = %sState(%sTable[row] >> %sOutputBits)\n", typeName, lower, lower))
	sb.WriteString("\treturn f.state\n")
	sb.WriteString("}\n\n")

	sb.WriteString("// Outputs returns the output bits of the current state.\n")
	sb.WriteString(fmt.Sprintf("func (f *%s) Outputs() uint32 {\n", typeName))
	sb.WriteString(fmt.Sprintf("\treturn %sTable[uint32(f.state)<<%sInputBits] & (1<<%sOutputBits - 1)\n", lower, lower, lower))
	sb.WriteString("}\n\n")

	sb.WriteString("// Reset returns the machine to its initial state.\n")
	sb.WriteString(fmt.Sprintf("func (f *%s) Reset() {\n", typeName))
	sb.WriteString(fmt.Sprintf("\tf.state = %sState%s\n", typeName, toPascalCase(m.Initial.Name)))
	sb.WriteString("}\n")

	return sb.String()
}
