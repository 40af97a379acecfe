package export

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/polyglot/internal/uir"
)

// GenerateMermaid produces a Mermaid graph TD diagram of a project: one
// subgraph per module, one node per function, dotted children for each
// function's control-flow inventory, and arrows for same-module call
// dependencies.
func GenerateMermaid(p *uir.Project) string {
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, m := range p.Modules {
		fns := projectModuleFunctions(m)
		if len(fns) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  subgraph %s[\"%.40s\"]\n", getID("module:"+m.ID), m.Name))
		for _, fn := range fns {
			label := fmt.Sprintf("%s(%d params)", fn.Name, len(fn.Parameters))
			fnID := getID(fn.ID)
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", fnID, label))
			for i, flow := range fn.Attrs.ControlFlow {
				cfID := fmt.Sprintf("%s_cf%d", fnID, i)
				sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", cfID, flow.Kind))
				sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", fnID, cfID))
			}
		}
		sb.WriteString("  end\n")
	}

	// Call edges, drawn only between functions that made it into the graph.
	for _, m := range p.Modules {
		for _, fn := range projectModuleFunctions(m) {
			src, ok := nodeIDs[fn.ID]
			if !ok {
				continue
			}
			for _, dep := range fn.Dependencies {
				if dst, ok := nodeIDs[dep]; ok {
					sb.WriteString(fmt.Sprintf("  %s --> %s\n", src, dst))
				}
			}
		}
	}

	return sb.String()
}

// projectModuleFunctions flattens free functions and class methods.
func projectModuleFunctions(m *uir.Module) []uir.Function {
	out := make([]uir.Function, 0, len(m.Functions))
	out = append(out, m.Functions...)
	for _, cls := range m.Classes {
		out = append(out, cls.Methods...)
	}
	return out
}
