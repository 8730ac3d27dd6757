package diagfmt

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	PathModeAuto PathMode = iota // короткие и относительные как есть, длинные абсолютные по базовому имени
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return "auto"
}

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color     bool
	Context   int8 // строк исходника перед строкой диагностики
	PathMode  PathMode
	Width     uint8 // обрезка строки исходника, 0 = без ограничения
	ShowNotes bool
}

// JSONOpts configures JSON.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int // ограничивает вывод, а не Bag
	IncludeNotes     bool
}

// TreeOpts configures FormatTreePretty.
type TreeOpts struct {
	Color     bool
	Width     int // обрезка текста слов и ссылок, 0 = без ограничения
	ShowSpans bool
}
