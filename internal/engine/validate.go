package engine

import (
	"sort"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// RoundTripReport is the structural diff between an original module and the
// re-parsed translation of it. It is a sanity check on shape only: matching
// function sets prove nothing about runtime behavior equivalence.
type RoundTripReport struct {
	// MissingFunctions are present in the source but absent from the
	// translation. Always a defect.
	MissingFunctions []string `json:"missing_functions"`

	// ExtraFunctions appear only in the translation, typically synthesized
	// wrappers. Informational.
	ExtraFunctions []string `json:"extra_functions"`

	// ParameterMismatches are functions present on both sides with
	// different parameter counts.
	ParameterMismatches []ParameterMismatch `json:"parameter_mismatches"`
}

// ParameterMismatch records a per-function parameter-count difference.
type ParameterMismatch struct {
	Function    string `json:"function"`
	SourceCount int    `json:"source_count"`
	TargetCount int    `json:"target_count"`
}

// Clean reports whether the round trip lost nothing.
func (r *RoundTripReport) Clean() bool {
	return len(r.MissingFunctions) == 0 && len(r.ParameterMismatches) == 0
}

// ValidateRoundTrip re-parses translated code in the target language and
// diffs its function-name set against the original module's. Differences
// come back as report data, never as an error; the only error is an
// unregistered language.
func (e *Engine) ValidateRoundTrip(original, translated string, source, target lang.Language) (*RoundTripReport, error) {
	srcModule, err := e.ParseToIR(original, source, "")
	if err != nil {
		return nil, err
	}
	dstModule, err := e.ParseToIR(translated, target, "")
	if err != nil {
		return nil, err
	}

	srcFns := functionArity(srcModule)
	dstFns := functionArity(dstModule)

	report := &RoundTripReport{}
	for name, srcCount := range srcFns {
		dstCount, ok := dstFns[name]
		if !ok {
			report.MissingFunctions = append(report.MissingFunctions, name)
			continue
		}
		if dstCount != srcCount {
			report.ParameterMismatches = append(report.ParameterMismatches, ParameterMismatch{
				Function:    name,
				SourceCount: srcCount,
				TargetCount: dstCount,
			})
		}
	}
	for name := range dstFns {
		if _, ok := srcFns[name]; !ok {
			report.ExtraFunctions = append(report.ExtraFunctions, name)
		}
	}

	sort.Strings(report.MissingFunctions)
	sort.Strings(report.ExtraFunctions)
	sort.Slice(report.ParameterMismatches, func(i, j int) bool {
		return report.ParameterMismatches[i].Function < report.ParameterMismatches[j].Function
	})
	return report, nil
}

// constructorSpellings covers the per-language constructor names that change
// across a translation and would otherwise show up as false diffs.
var constructorSpellings = map[string]bool{
	"constructor": true, "__init__": true, "init": true,
	"initialize": true, "new": true, "__construct": true,
}

// functionArity collects every function and method name with its
// parameter count, skipping constructors and receiver-style parameters.
func functionArity(m *uir.Module) map[string]int {
	out := make(map[string]int)
	record := func(fn *uir.Function, owner string) {
		if constructorSpellings[fn.Name] || fn.Name == owner {
			return
		}
		count := 0
		for _, p := range fn.Parameters {
			if p.Name == "self" || p.Name == "this" {
				continue
			}
			count++
		}
		out[fn.Name] = count
	}
	for i := range m.Functions {
		record(&m.Functions[i], "")
	}
	for i := range m.Classes {
		cls := &m.Classes[i]
		for j := range cls.Methods {
			record(&cls.Methods[j], cls.Name)
		}
	}
	return out
}
