package indent

import "strings"

// category is the structural role a keyword plays for indentation.
type category uint8

const (
	catNone category = iota
	catOpener
	catCloser
	catTransfer
	catBranchOpener
	catBranchCloser
	catCaseLabel
)

// family groups the opener/closer keywords of one block construct so that a
// matched pair on a single line can be recognized as net-zero.
type family uint8

const (
	famNone family = iota
	famProcedure
	famIf
	famFor
	famWhile
	famRepeat
	famStructure
	famStructureUnion
	famInterface
	famEnumeration
	famDataSection
	famMacro
	famImport
	famDeclareModule
	famModule
	famWith
	famSelect
	famCompilerIf
	famCompilerSelect
)

type keywordInfo struct {
	cat category
	fam family
}

// keywordTable maps each lowercased structural keyword to its category and
// block family. Classification precedence lives in classify, not here; the
// table only answers "what is this word".
var keywordTable = map[string]keywordInfo{
	// procedures
	"procedure":     {catOpener, famProcedure},
	"procedurec":    {catOpener, famProcedure},
	"proceduredll":  {catOpener, famProcedure},
	"procedurecdll": {catOpener, famProcedure},
	"endprocedure":  {catCloser, famProcedure},

	// conditionals
	"if":     {catOpener, famIf},
	"elseif": {catTransfer, famIf},
	"else":   {catTransfer, famIf},
	"endif":  {catCloser, famIf},

	// loops; Next closes both For and ForEach
	"for":     {catOpener, famFor},
	"foreach": {catOpener, famFor},
	"next":    {catCloser, famFor},
	"while":   {catOpener, famWhile},
	"wend":    {catCloser, famWhile},
	"repeat":  {catOpener, famRepeat},
	"until":   {catCloser, famRepeat},
	"forever": {catCloser, famRepeat},

	// declarations
	"structure":         {catOpener, famStructure},
	"endstructure":      {catCloser, famStructure},
	"structureunion":    {catOpener, famStructureUnion},
	"endstructureunion": {catCloser, famStructureUnion},
	"interface":         {catOpener, famInterface},
	"endinterface":      {catCloser, famInterface},
	"enumeration":       {catOpener, famEnumeration},
	"enumerationbinary": {catOpener, famEnumeration},
	"endenumeration":    {catCloser, famEnumeration},
	"datasection":       {catOpener, famDataSection},
	"enddatasection":    {catCloser, famDataSection},
	"macro":             {catOpener, famMacro},
	"endmacro":          {catCloser, famMacro},
	"import":            {catOpener, famImport},
	"importc":           {catOpener, famImport},
	"endimport":         {catCloser, famImport},
	"declaremodule":     {catOpener, famDeclareModule},
	"enddeclaremodule":  {catCloser, famDeclareModule},
	"module":            {catOpener, famModule},
	"endmodule":         {catCloser, famModule},
	"with":              {catOpener, famWith},
	"endwith":           {catCloser, famWith},

	// multi-way branch
	"select":    {catBranchOpener, famSelect},
	"case":      {catCaseLabel, famSelect},
	"default":   {catCaseLabel, famSelect},
	"endselect": {catBranchCloser, famSelect},

	// preprocessor blocks run in parallel to the runtime ones
	"compilerif":        {catOpener, famCompilerIf},
	"compilerelseif":    {catTransfer, famCompilerIf},
	"compilerelse":      {catTransfer, famCompilerIf},
	"compilerendif":     {catCloser, famCompilerIf},
	"compilerselect":    {catBranchOpener, famCompilerSelect},
	"compilercase":      {catCaseLabel, famCompilerSelect},
	"compilerdefault":   {catCaseLabel, famCompilerSelect},
	"compilerendselect": {catBranchCloser, famCompilerSelect},
}

func lookupKeyword(word string) (keywordInfo, bool) {
	info, ok := keywordTable[strings.ToLower(word)]
	return info, ok
}

func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_', b == '$', b == '#':
		// identifiers may carry $ suffixes and # constant prefixes; a keyword
		// glued to either is not a keyword
		return true
	}
	return false
}

// firstWord returns the leading identifier-like word of a trimmed line, or ""
// when the line does not start with one.
func firstWord(line string) string {
	i := 0
	for i < len(line) && isWordByte(line[i]) {
		i++
	}
	return line[:i]
}

// words calls fn for every identifier-like word on the line, in order.
func words(line string, fn func(word string)) {
	i := 0
	for i < len(line) {
		if !isWordByte(line[i]) {
			i++
			continue
		}
		j := i
		for j < len(line) && isWordByte(line[j]) {
			j++
		}
		fn(line[i:j])
		i = j
	}
}
