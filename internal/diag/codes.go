package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Стилевые (sniffs)
	StyInfo                 Code = 1000
	StySpaceBeforeEquals    Code = 1001
	StySpaceAfterEquals     Code = 1002
	StySpaceBeforeComma     Code = 1003
	StyNoSpaceBeforeArg     Code = 1004
	StySpacingBeforeArg     Code = 1005
	StySpacingAfterOpen     Code = 1006
	StySpacingAfterHint     Code = 1007
	StySpacingBeforeClose   Code = 1008
	StySpacingBetween       Code = 1009
	StySpacingBeforeHint    Code = 1010
	StySpacingAfterOpenHint Code = 1011

	// Ввод-вывод
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOBadTokenDump  Code = 4002

	// Проектные (конфигурация)
	PrjInfo          Code = 5000
	PrjUnknownSniff  Code = 5001
	PrjBadConfigFile Code = 5002

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	StyInfo:                 "Style information",
	StySpaceBeforeEquals:    "Space between argument and equals sign",
	StySpaceAfterEquals:     "Space between equals sign and default value",
	StySpaceBeforeComma:     "Space between argument and comma",
	StyNoSpaceBeforeArg:     "Missing space between comma and argument",
	StySpacingBeforeArg:     "Wrong spacing between comma and argument",
	StySpacingAfterOpen:     "Space between opening bracket and argument",
	StySpacingAfterHint:     "Wrong spacing between type hint and argument",
	StySpacingBeforeClose:   "Space between argument and closing bracket",
	StySpacingBetween:       "Space between brackets of empty declaration",
	StySpacingBeforeHint:    "Wrong spacing between comma and type hint",
	StySpacingAfterOpenHint: "Space between opening bracket and type hint",
	IOInfo:                  "I/O information",
	IOLoadFileError:         "Failed to load file",
	IOBadTokenDump:          "Malformed token dump",
	PrjInfo:                 "Project information",
	PrjUnknownSniff:         "Unknown sniff",
	PrjBadConfigFile:        "Invalid configuration file",
	ObsInfo:                 "Observability information",
	ObsTimings:              "Timing report",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
