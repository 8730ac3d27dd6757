package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the event type.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point", KindHeartbeat: "heartbeat"}

func (k Kind) String() string { return lookupName(kindNames[:], int(k)) }

// Scope is the granularity of an event; smaller values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // вся команда
	ScopePass                    // load, cache, lex+resolve
	ScopeFile                    // один файл каталога
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeFile: "file"}

func (s Scope) String() string { return lookupName(scopeNames[:], int(s)) }

// Level controls which scopes reach the output.
type Level uint8

const (
	LevelOff Level = iota
	// только дамп кольца при ошибке
	LevelError
	// driver и pass
	LevelPhase
	// плюс файлы
	LevelDetail
	// всё
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string { return lookupName(levelNames[:], int(l)) }

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass at level l.
// LevelError keeps nothing live; the ring is dumped by the caller on failure.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePass
	case LevelDetail:
		return scope <= ScopeFile
	case LevelDebug:
		return true
	default:
		return false
	}
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 для корневых
	Name     string // "parse", "lex+resolve", "file:notes/a.norg"
	Detail   string
	Extra    map[string]string
}

func lookupName(names []string, i int) string {
	if i < 0 || i >= len(names) || names[i] == "" {
		return "unknown"
	}
	return names[i]
}
