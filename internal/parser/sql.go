package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// SQLParser is the pattern scanner for SQL scripts. Tables and views become
// table-kind classes with one property per column; procedures, functions and
// triggers become module functions.
type SQLParser struct{}

var (
	sqlPsqlIncRE  = regexp.MustCompile(`(?m)^\s*(\\i(?:nclude)?\s+\S+)`)
	sqlMysqlIncRE = regexp.MustCompile(`(?mi)^\s*(SOURCE\s+\S+)`)
	sqlTableRE    = regexp.MustCompile(`(?is)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(\w+)\s*\(`)
	sqlViewRE     = regexp.MustCompile(`(?is)CREATE\s+(?:OR\s+REPLACE\s+)?VIEW\s+(\w+)\s+AS\s+(SELECT[^;]+)`)
	sqlProcRE     = regexp.MustCompile(`(?is)CREATE\s+(?:OR\s+REPLACE\s+)?PROCEDURE\s+(\w+)\s*\(([^)]*)\)\s*(?:AS|BEGIN)\s*(.*?)(?:END|GO)`)
	sqlFuncRE     = regexp.MustCompile(`(?is)CREATE\s+(?:OR\s+REPLACE\s+)?FUNCTION\s+(\w+)\s*\(([^)]*)\)\s*RETURNS\s+(\w+)\s*(?:AS|BEGIN)\s*(.*?)(?:END|GO)`)
	sqlTriggerRE  = regexp.MustCompile(`(?is)CREATE\s+(?:OR\s+REPLACE\s+)?TRIGGER\s+(\w+)\s+(BEFORE|AFTER)\s+(INSERT|UPDATE|DELETE)\s+ON\s+(\w+)`)
	sqlSizeRE     = regexp.MustCompile(`\([^)]*\)`)
)

var sqlFlowPatterns = []flowPattern{
	{regexp.MustCompile(`(?i)\bIF\s`), uir.FlowIf},
	{regexp.MustCompile(`(?i)\bCASE\s`), uir.FlowSwitch},
	{regexp.MustCompile(`(?i)\bWHILE\s`), uir.FlowWhile},
	{regexp.MustCompile(`(?i)\bLOOP\s`), uir.FlowWhile},
	{regexp.MustCompile(`(?i)\bFOR\s`), uir.FlowFor},
}

var sqlConstraintWords = []string{"PRIMARY KEY", "FOREIGN KEY", "UNIQUE", "CHECK", "CONSTRAINT"}

func (p *SQLParser) Language() lang.Language { return lang.SQL }

func (p *SQLParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.SQL, filename)

	for _, inc := range sqlPsqlIncRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(inc[1]))
	}
	for _, inc := range sqlMysqlIncRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(inc[1]))
	}

	p.parseTables(source, m)
	p.parseViews(source, m)
	p.parseProcedures(source, m)
	p.parseFunctions(source, m)
	p.parseTriggers(source, m)

	return m
}

func (p *SQLParser) parseTables(source string, m *uir.Module) {
	for _, match := range sqlTableRE.FindAllStringSubmatchIndex(source, -1) {
		columns, end, ok := p.parenBody(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.SQL,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindTable},
		}
		cls.Properties = sqlColumns(columns)
		m.Classes = append(m.Classes, cls)
	}
}

// parseViews records views as table-kind classes; the defining SELECT
// survives in the source code slot.
func (p *SQLParser) parseViews(source string, m *uir.Module) {
	for _, match := range sqlViewRE.FindAllStringSubmatch(source, -1) {
		m.Classes = append(m.Classes, uir.Class{
			ID:         uir.NewID(),
			Name:       match[1],
			SourceLang: lang.SQL,
			SourceCode: strings.TrimSpace(match[0]),
			Attrs:      uir.Attributes{Kind: uir.KindTable},
		})
	}
}

func (p *SQLParser) parseProcedures(source string, m *uir.Module) {
	for _, match := range sqlProcRE.FindAllStringSubmatch(source, -1) {
		m.Functions = append(m.Functions, uir.Function{
			ID:         uir.NewID(),
			Name:       match[1],
			Parameters: sqlParams(match[2]),
			ReturnType: uir.Sig(uir.Void),
			SourceLang: lang.SQL,
			SourceCode: strings.TrimSpace(match[0]),
			Attrs: uir.Attributes{
				Visibility:  uir.Public,
				ControlFlow: scanControlFlow(match[3], sqlFlowPatterns),
			},
		})
	}
}

func (p *SQLParser) parseFunctions(source string, m *uir.Module) {
	for _, match := range sqlFuncRE.FindAllStringSubmatch(source, -1) {
		m.Functions = append(m.Functions, uir.Function{
			ID:         uir.NewID(),
			Name:       match[1],
			Parameters: sqlParams(match[2]),
			ReturnType: sqlType(match[3]),
			SourceLang: lang.SQL,
			SourceCode: strings.TrimSpace(match[0]),
			Attrs: uir.Attributes{
				Visibility:  uir.Public,
				ControlFlow: scanControlFlow(match[4], sqlFlowPatterns),
			},
		})
	}
}

func (p *SQLParser) parseTriggers(source string, m *uir.Module) {
	for _, match := range sqlTriggerRE.FindAllStringSubmatch(source, -1) {
		m.Functions = append(m.Functions, uir.Function{
			ID:         uir.NewID(),
			Name:       match[1],
			ReturnType: uir.Sig(uir.Void),
			SourceLang: lang.SQL,
			SourceCode: strings.TrimSpace(match[0]),
			Attrs: uir.Attributes{
				Visibility: uir.Public,
				// The table a trigger fires on is its receiver.
				Receiver:     strings.ToUpper(match[2]) + " " + strings.ToUpper(match[3]),
				ReceiverType: match[4],
			},
		})
	}
}

// parenBody matches a parenthesized block starting at the `(` at from.
func (p *SQLParser) parenBody(source string, from int) (string, int, bool) {
	depth := 0
	for i := from; i < len(source); i++ {
		switch source[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return source[from+1 : i], i + 1, true
			}
		}
	}
	return "", 0, false
}

// sqlColumns parses column definitions, skipping table-level constraints.
// NOT NULL columns come out non-nullable.
func sqlColumns(columns string) []uir.Parameter {
	var props []uir.Parameter
	for _, part := range splitTopLevel(columns, ',') {
		part = strings.TrimSpace(part)
		upper := strings.ToUpper(part)
		constraint := false
		for _, kw := range sqlConstraintWords {
			if strings.HasPrefix(upper, kw) {
				constraint = true
				break
			}
		}
		if constraint {
			continue
		}
		tokens := strings.Fields(part)
		if len(tokens) < 2 {
			continue
		}
		sig := sqlType(tokens[1])
		sig.Nullable = !strings.Contains(upper, "NOT NULL")
		props = append(props, uir.Parameter{Name: tokens[0], Type: sig})
	}
	return props
}

// sqlParams parses procedure/function parameters; IN/OUT/INOUT modifiers
// are stripped.
func sqlParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		tokens := strings.Fields(strings.TrimSpace(part))
		if len(tokens) > 0 {
			switch strings.ToUpper(tokens[0]) {
			case "IN", "OUT", "INOUT":
				tokens = tokens[1:]
			}
		}
		if len(tokens) < 2 {
			continue
		}
		params = append(params, uir.Parameter{
			Name: tokens[0], Type: sqlType(tokens[1]), Required: true,
		})
	}
	return params
}

// sqlType maps a SQL column/return type to a TypeSignature. Size suffixes
// like VARCHAR(255) are erased first.
func sqlType(t string) uir.TypeSignature {
	t = strings.ToUpper(strings.TrimSpace(sqlSizeRE.ReplaceAllString(t, "")))
	switch t {
	case "VOID":
		return uir.Sig(uir.Void)
	case "BOOLEAN", "BOOL", "BIT":
		return uir.Sig(uir.Boolean)
	case "INT", "INTEGER", "SMALLINT", "BIGINT", "TINYINT", "SERIAL", "BIGSERIAL":
		return uir.Sig(uir.Integer)
	case "FLOAT", "REAL", "DOUBLE", "DECIMAL", "NUMERIC":
		return uir.Sig(uir.Float)
	case "CHAR", "VARCHAR", "TEXT", "NVARCHAR", "NCHAR", "DATE", "TIME", "DATETIME", "TIMESTAMP", "UUID":
		return uir.Sig(uir.String)
	case "JSON", "JSONB":
		return uir.Sig(uir.Object)
	case "ARRAY", "TABLE":
		return uir.Sig(uir.Array)
	default:
		return uir.Sig(uir.Any)
	}
}
