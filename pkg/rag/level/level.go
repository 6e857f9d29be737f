package level

import (
	"errors"
	"fmt"
	"strings"
)

// Level is one education stage the school offers.
type Level string

const (
	Anaokulu Level = "anaokulu"
	Ilkokul  Level = "ilkokul"
	Ortaokul Level = "ortaokul"
	Lise     Level = "lise"
)

// All lists the universe in canonical order.
var All = []Level{Anaokulu, Ilkokul, Ortaokul, Lise}

var ErrInvalidLevel = errors.New("invalid education level")

var displayNames = map[Level]string{
	Anaokulu: "Anaokulu",
	Ilkokul:  "İlkokul (1-4. Sınıf)",
	Ortaokul: "Ortaokul (5-8. Sınıf)",
	Lise:     "Lise (9-12. Sınıf)",
}

func (l Level) Valid() bool {
	_, ok := displayNames[l]
	return ok
}

func (l Level) DisplayName() string {
	if name, ok := displayNames[l]; ok {
		return name
	}
	return string(l)
}

// Tag is the uppercase label used in retrieval context headers, e.g. [LİSE].
func (l Level) Tag() string {
	return strings.ToUpper(strings.ReplaceAll(string(l), "i", "İ"))
}

// Parse normalizes s into a Level, accepting any case and surrounding space.
func Parse(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "İ", "i"))))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return l, nil
}

// Set is a subset of All kept in canonical order. The zero value is empty.
type Set struct {
	members map[Level]struct{}
}

func NewSet(levels ...Level) Set {
	s := Set{}
	for _, l := range levels {
		s.add(l)
	}
	return s
}

// ParseSet validates every entry; duplicates collapse.
func ParseSet(values []string) (Set, error) {
	s := Set{}
	for _, v := range values {
		l, err := Parse(v)
		if err != nil {
			return Set{}, err
		}
		s.add(l)
	}
	return s, nil
}

func (s *Set) add(l Level) bool {
	if !l.Valid() {
		return false
	}
	if s.members == nil {
		s.members = make(map[Level]struct{}, len(All))
	}
	if _, ok := s.members[l]; ok {
		return false
	}
	s.members[l] = struct{}{}
	return true
}

// With returns a copy of s extended by levels outside the set. Out-of-universe
// values are dropped. The second result lists what was actually added.
func (s Set) With(levels ...Level) (Set, []Level) {
	out := NewSet(s.Levels()...)
	var added []Level
	for _, l := range levels {
		if out.add(l) {
			added = append(added, l)
		}
	}
	return out, added
}

func (s Set) Contains(l Level) bool {
	_, ok := s.members[l]
	return ok
}

func (s Set) Len() int { return len(s.members) }

func (s Set) Empty() bool { return len(s.members) == 0 }

func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for l := range s.members {
		if !other.Contains(l) {
			return false
		}
	}
	return true
}

// Levels returns the members in canonical order.
func (s Set) Levels() []Level {
	out := make([]Level, 0, len(s.members))
	for _, l := range All {
		if s.Contains(l) {
			out = append(out, l)
		}
	}
	return out
}

func (s Set) Strings() []string {
	levels := s.Levels()
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}

// DisplayNames joins the display names with ", ".
func (s Set) DisplayNames() string {
	levels := s.Levels()
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.DisplayName()
	}
	return strings.Join(names, ", ")
}
