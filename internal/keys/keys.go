// Package keys holds the key table of the 5x6 button matrix: the bit each
// key occupies in a scan word and the LED sitting under it.
package keys

import (
	"errors"
	"fmt"
	"strings"
)

// Key identifies one physical button.
type Key uint8

const (
	Track Key = iota
	Step
	Play
	Rec
	Alt
	Patt
	Song
	Menu
	Up
	Down
	Right
	Left
	A
	B
	K1
	K2
	K3
	K4
	K5
	K6
	K7
	K8
	K9
	K10
	K11
	K12
	K13
	K14
	K15
	K16
)

const (
	Count    = 30
	LEDCount = 24

	// AllMask is every bit a full scan can set.
	AllMask uint32 = 0x3FFFFFFF
)

var ErrUnknownKey = errors.New("keys: unknown key")

type Entry struct {
	Name string
	Mask uint32
	LED  int
	// Nav keys have no LED of their own; LED is 0 by convention.
	Nav bool
}

// Table is indexed by Key. Masks are relative to the strobe order of
// keyboard.Matrix: column 1 first, row 1 most significant.
var Table = [Count]Entry{
	Track: {"TRACK", 0x10000000, 4, false},
	Step:  {"STEP", 0x08000000, 14, false},
	Play:  {"PLAY", 0x02000000, 13, false},
	Rec:   {"REC", 0x04000000, 23, false},
	Alt:   {"ALT", 0x00040000, 3, false},
	Patt:  {"PATT", 0x00001000, 2, false},
	Song:  {"SONG", 0x00000040, 1, false},
	Menu:  {"MENU", 0x00000020, 0, false},
	Up:    {"UP", 0x00020000, 0, true},
	Down:  {"DOWN", 0x00800000, 0, true},
	Right: {"RIGHT", 0x00000800, 0, true},
	Left:  {"LEFT", 0x20000000, 0, true},
	A:     {"A", 0x01000000, 0, true},
	B:     {"B", 0x00000001, 0, true},
	K1:    {"K1", 0x00400000, 5, false},
	K2:    {"K2", 0x00010000, 6, false},
	K3:    {"K3", 0x00000400, 7, false},
	K4:    {"K4", 0x00000010, 8, false},
	K5:    {"K5", 0x00000002, 9, false},
	K6:    {"K6", 0x00000080, 10, false},
	K7:    {"K7", 0x00002000, 11, false},
	K8:    {"K8", 0x00080000, 12, false},
	K9:    {"K9", 0x00200000, 15, false},
	K10:   {"K10", 0x00008000, 16, false},
	K11:   {"K11", 0x00000200, 17, false},
	K12:   {"K12", 0x00000008, 18, false},
	K13:   {"K13", 0x00000004, 19, false},
	K14:   {"K14", 0x00000100, 20, false},
	K15:   {"K15", 0x00004000, 21, false},
	K16:   {"K16", 0x00100000, 22, false},
}

// All returns every key in table order.
func All() []Key {
	out := make([]Key, Count)
	for i := range out {
		out[i] = Key(i)
	}
	return out
}

// entry returns the table row for k; undeclared keys get the zero Entry, so
// they have no mask and never match a scan.
func (k Key) entry() Entry {
	if int(k) >= Count {
		return Entry{}
	}
	return Table[k]
}

func (k Key) Mask() uint32 { return k.entry().Mask }
func (k Key) LED() int     { return k.entry().LED }
func (k Key) Nav() bool    { return k.entry().Nav }

func (k Key) String() string {
	if int(k) >= Count {
		return fmt.Sprintf("Key(%d)", uint8(k))
	}
	return Table[k].Name
}

// Parse looks a key up by its table name, case-insensitively.
func Parse(name string) (Key, error) {
	for i, e := range Table {
		if strings.EqualFold(e.Name, name) {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// Masked returns the keys whose bit is set in w, in table order.
func Masked(w uint32) []Key {
	var out []Key
	for i, e := range Table {
		if w&e.Mask != 0 {
			out = append(out, Key(i))
		}
	}
	return out
}
