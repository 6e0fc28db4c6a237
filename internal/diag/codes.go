package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксис путей
	SynInfo            Code = 1000
	SynUnexpectedToken Code = 1001
	SynExpectIdent     Code = 1002
	SynUnclosed        Code = 1003
	SynBadNumber       Code = 1004
	SynUnknownBinding  Code = 1005

	// Определения биндингов
	BindInfo                Code = 2000
	BindDuplicateDefinition Code = 2001
	BindDuplicateSection    Code = 2002
	BindUnresolvedReference Code = 2003
	BindDuplicateItem       Code = 2004
	BindBadSignature        Code = 2005

	// Рендеринг путей
	RenderInfo              Code = 3000
	RenderInvalidOperator   Code = 3001
	RenderMissingGetter     Code = 3002
	RenderMissingSetter     Code = 3003
	RenderMissingFunction   Code = 3005
	RenderParamUnsupported  Code = 3006
	RenderMissingOperand    Code = 3007
	RenderUnsupportedTarget Code = 3008

	// Манифесты и персистентность
	IOInfo           Code = 4000
	IOLoadError      Code = 4001
	IOManifestError  Code = 4002
	IOMalformedInput Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	SynInfo:                 "Syntax information",
	SynUnexpectedToken:      "Unexpected token",
	SynExpectIdent:          "Expected identifier",
	SynUnclosed:             "Unclosed delimiter",
	SynBadNumber:            "Malformed number literal",
	SynUnknownBinding:       "Unknown binding",
	BindInfo:                "Binding information",
	BindDuplicateDefinition: "Duplicate function definition",
	BindDuplicateSection:    "Duplicate sub-section for operator",
	BindUnresolvedReference: "Unresolved binding reference",
	BindDuplicateItem:       "Duplicate binding item name",
	BindBadSignature:        "Malformed signature",
	RenderInfo:              "Render information",
	RenderInvalidOperator:   "Invalid operator in path",
	RenderMissingGetter:     "No getter found",
	RenderMissingSetter:     "No setter found",
	RenderMissingFunction:   "No function found",
	RenderParamUnsupported:  "Not supported as parameter",
	RenderMissingOperand:    "Missing path operand",
	RenderUnsupportedTarget: "Unsupported assignment target",
	IOInfo:                  "I/O information",
	IOLoadError:             "Load error",
	IOManifestError:         "Manifest error",
	IOMalformedInput:        "Malformed persisted stream",
}

// ID returns the stable short identifier, e.g. "BND2001".
func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("BND%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RND%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return c.ID()
}
