package diag

import "sort"

// Code is a stable taxonomy identifier for one violation kind, independent
// of the human-readable message.
type Code string

const (
	// CodeWriteNeedsYield flags a blocking write with no mitigating
	// statement immediately after it.
	CodeWriteNeedsYield Code = "JG1001"
	// CodeBulkReadNeedsYield flags a potentially expensive read with no
	// mitigating statement immediately after it.
	CodeBulkReadNeedsYield Code = "JG1002"
	// CodeReturnAwaitWrite flags `return await <write>;`, where no caller
	// can insert a mitigation between the write and the return.
	CodeReturnAwaitWrite Code = "JG1003"
)

// Definition is canonical metadata for one taxonomy code.
type Definition struct {
	Code            Code
	Slug            string
	Title           string
	DefaultSeverity Severity
}

var definitions = map[Code]Definition{
	CodeWriteNeedsYield: {
		Code:            CodeWriteNeedsYield,
		Slug:            "write-needs-yield",
		Title:           "blocking write is not followed by a frame yield",
		DefaultSeverity: SevWarning,
	},
	CodeBulkReadNeedsYield: {
		Code:            CodeBulkReadNeedsYield,
		Slug:            "bulk-read-needs-yield",
		Title:           "expensive read is not followed by a frame yield",
		DefaultSeverity: SevSuggestion,
	},
	CodeReturnAwaitWrite: {
		Code:            CodeReturnAwaitWrite,
		Slug:            "return-await-write",
		Title:           "blocking write is awaited directly in a return",
		DefaultSeverity: SevWarning,
	},
}

// DefinitionFor resolves canonical metadata for a code. Unknown codes get a
// warning-tier placeholder rather than an error; the taxonomy is advisory.
func DefinitionFor(code Code) Definition {
	if def, ok := definitions[code]; ok {
		return def
	}
	return Definition{Code: code, Slug: string(code), DefaultSeverity: SevWarning}
}

// Definitions lists all registered codes in code order.
func Definitions() []Definition {
	defs := make([]Definition, 0, len(definitions))
	for _, def := range definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	return defs
}
