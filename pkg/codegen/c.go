package codegen

import (
	"fmt"
	"strings"
)

// GenerateC generates a single-header C implementation of the machine.
// Define <NAME>_IMPLEMENTATION in exactly one translation unit.
func GenerateC(m *Machine) string {
	var sb strings.Builder
	name := toSnakeCase(m.Name)
	if m.Name == "" {
		name = "fsm"
	}
	NAME := strings.ToUpper(name)

	sb.WriteString(fmt.Sprintf(`// Generated FSM: %s

#ifndef %s_H
#define %s_H

#include <stdint.h>

`, m.Name, NAME, NAME))

	sb.WriteString(fmt.Sprintf("typedef uint32_t %s_state_t;\n\n", name))

	sb.WriteString("// States\n")
	for _, s := range m.States {
		sb.WriteString(fmt.Sprintf("#define %s_STATE_%s %du\n", NAME, strings.ToUpper(toSnakeCase(s.Name)), s.Number))
	}
	sb.WriteString("\n")

	if len(m.Inputs) > 0 {
		sb.WriteString("// Input bits\n")
		for i, in := range m.Inputs {
			sb.WriteString(fmt.Sprintf("#define %s_INPUT_%s 0x%xu\n", NAME, strings.ToUpper(toSnakeCase(in)), m.InputMask(i)))
		}
		sb.WriteString("\n")
	}

	if len(m.Outputs) > 0 {
		sb.WriteString("// Output bits\n")
		for i, out := range m.Outputs {
			sb.WriteString(fmt.Sprintf("#define %s_OUTPUT_%s 0x%xu\n", NAME, strings.ToUpper(toSnakeCase(out)), m.OutputMask(i)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("#define %s_INPUT_BITS %d\n", NAME, len(m.Inputs)))
	sb.WriteString(fmt.Sprintf("#define %s_OUTPUT_BITS %d\n\n", NAME, len(m.Outputs)))

	sb.WriteString("// FSM instance\n")
	sb.WriteString("typedef struct {\n")
	sb.WriteString(fmt.Sprintf("    %s_state_t state;\n", name))
	sb.WriteString(fmt.Sprintf("} %s_t;\n\n", name))

	sb.WriteString(fmt.Sprintf("void %s_init(%s_t *fsm);\n", name, name))
	sb.WriteString(fmt.Sprintf("%s_state_t %s_step(%s_t *fsm, uint32_t inputs);\n", name, name, name))
	sb.WriteString(fmt.Sprintf("uint32_t %s_outputs(const %s_t *fsm);\n\n", name, name))

	sb.WriteString(fmt.Sprintf("#endif // %s_H\n\n", NAME))

	sb.WriteString(fmt.Sprintf("#ifdef %s_IMPLEMENTATION\n\n", NAME))

	packed := m.Packed()
	sb.WriteString("// Indexed by state << INPUT_BITS | inputs; unused encodings map to 0\n")
	sb.WriteString(fmt.Sprintf("static const uint32_t %s_table[%d] = {\n", name, len(packed)))
	sb.WriteString(hexWords(packed, 8, "    "))
	sb.WriteString("};\n\n")

	sb.WriteString(fmt.Sprintf("void %s_init(%s_t *fsm) {\n", name, name))
	sb.WriteString(fmt.Sprintf("    fsm->state = %s_STATE_%s;\n", NAME, strings.ToUpper(toSnakeCase(m.Initial.Name))))
	sb.WriteString("}\n\n")

	mask := fmt.Sprintf("((1u << %s_INPUT_BITS) - 1u)", NAME)
	sb.WriteString(fmt.Sprintf("%s_state_t %s_step(%s_t *fsm, uint32_t inputs) {\n", name, name, name))
	sb.WriteString(fmt.Sprintf("    uint32_t row = (fsm->state << %s_INPUT_BITS) | (inputs & %s);\n", NAME, mask))
	sb.WriteString(fmt.Sprintf("    fsm->state = %s_table[row] >> %s_OUTPUT_BITS;\n", name, NAME))
	sb.WriteString("    return fsm->state;\n")
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("uint32_t %s_outputs(const %s_t *fsm) {\n", name, name))
	sb.WriteString(fmt.Sprintf("    return %s_table[fsm->state << %s_INPUT_BITS] & ((1u << %s_OUTPUT_BITS) - 1u);\n", name, NAME, NAME))
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("#endif // %s_IMPLEMENTATION\n", NAME))
	return sb.String()
}
