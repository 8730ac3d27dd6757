package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo             Code = 1000
	LexUnterminatedLink Code = 1001
	LexInvalidUTF8      Code = 1002

	// Разрешение модификаторов
	SynInfo             Code = 2000
	SynUnclosedModifier Code = 2001
	SynUnmatchedCloser  Code = 2002

	// Ввод-вывод
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Наблюдаемость
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		LexInfo:             "Lexical information",
		LexUnterminatedLink: "Unterminated link",
		LexInvalidUTF8:      "Invalid UTF-8 sequence",
		SynInfo:             "Syntax information",
		SynUnclosedModifier: "Unclosed attached modifier",
		SynUnmatchedCloser:  "Closing delimiter without opener",
		IOLoadFileError:     "I/O load file error",
		IOCacheError:        "Parse cache error",
		ObsTimings:          "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
