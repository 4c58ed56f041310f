// SVG path-data parsing.

package geom

import (
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

// argCounts is the number of arguments per (upper-case) path command.
var argCounts = map[byte]int{
	'M': 2,
	'Z': 0,
	'L': 2,
	'H': 1,
	'V': 1,
	'C': 6,
	'S': 4,
	'Q': 4,
	'T': 2,
	'A': 7,
}

func skipSeparators(b []byte) int {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == ',' || b[i] == '\n' || b[i] == '\r' || b[i] == '\t') {
		i++
	}
	return i
}

func startsNumber(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+'
}

// MustParsePath parses SVG path data and panics on error.
func MustParsePath(d string) *Path {
	p, err := ParsePath(d)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePath parses an SVG path data string ("M100,10 A90,90 0 1,1 ...").
// Errors wrap ErrBadPath and carry the 1-based byte position.
func ParsePath(d string) (*Path, error) {
	path := []byte(d)
	p := NewPath()

	i := skipSeparators(path)
	if i >= len(path) {
		return nil, fmt.Errorf("%w: empty path data", ErrBadPath)
	}
	if path[i] != 'M' && path[i] != 'm' {
		return nil, fmt.Errorf("%w: path must start with a moveto at position %d", ErrBadPath, i+1)
	}

	var args [7]float64
	var cur, start, lastCtrl Point
	prev := byte(0)

	for {
		i += skipSeparators(path[i:])
		if i >= len(path) {
			break
		}

		cmd := prev
		if !startsNumber(path[i]) {
			cmd = path[i]
			i++
			i += skipSeparators(path[i:])
		} else if prev == 0 || prev == 'Z' || prev == 'z' {
			return nil, fmt.Errorf("%w: number without command at position %d", ErrBadPath, i+1)
		}

		upper := cmd
		if cmd >= 'a' && cmd <= 'z' {
			upper = cmd - ('a' - 'A')
		}
		n, ok := argCounts[upper]
		if !ok {
			return nil, fmt.Errorf("%w: unknown command '%c' at position %d", ErrBadPath, cmd, i)
		}

		for j := 0; j < n; j++ {
			if upper == 'A' && (j == 3 || j == 4) {
				// Flags are single digits and may be packed ("1,1" or "11")
				if i < len(path) && (path[i] == '0' || path[i] == '1') {
					args[j] = float64(path[i] - '0')
					i++
				} else {
					return nil, fmt.Errorf("%w: arc flag must be 0 or 1 at position %d", ErrBadPath, i+1)
				}
			} else {
				num, size := strconv.ParseFloat(path[i:])
				if size == 0 {
					return nil, fmt.Errorf("%w: command '%c' expects %d numbers at position %d", ErrBadPath, cmd, n, i+1)
				}
				args[j] = num
				i += size
			}
			i += skipSeparators(path[i:])
		}

		rel := cmd >= 'a' && cmd <= 'z'
		abs := func(x, y float64) Point {
			if rel {
				return Point{cur.X + x, cur.Y + y}
			}
			return Point{x, y}
		}

		ctrl := Point{}
		switch upper {
		case 'M':
			cur = abs(args[0], args[1])
			start = cur
			p.MoveTo(cur.X, cur.Y)
			// Further coordinate pairs are implicit linetos
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'Z':
			p.Close()
			cur = start
		case 'L':
			cur = abs(args[0], args[1])
			p.LineTo(cur.X, cur.Y)
		case 'H':
			if rel {
				cur.X += args[0]
			} else {
				cur.X = args[0]
			}
			p.LineTo(cur.X, cur.Y)
		case 'V':
			if rel {
				cur.Y += args[0]
			} else {
				cur.Y = args[0]
			}
			p.LineTo(cur.X, cur.Y)
		case 'C':
			c1 := abs(args[0], args[1])
			ctrl = abs(args[2], args[3])
			cur = abs(args[4], args[5])
			p.CubicTo(c1.X, c1.Y, ctrl.X, ctrl.Y, cur.X, cur.Y)
		case 'S':
			c1 := cur
			if prev == 'C' || prev == 'c' || prev == 'S' || prev == 's' {
				c1 = cur.Scale(2).Sub(lastCtrl)
			}
			ctrl = abs(args[0], args[1])
			cur = abs(args[2], args[3])
			p.CubicTo(c1.X, c1.Y, ctrl.X, ctrl.Y, cur.X, cur.Y)
		case 'Q':
			ctrl = abs(args[0], args[1])
			cur = abs(args[2], args[3])
			p.QuadTo(ctrl.X, ctrl.Y, cur.X, cur.Y)
		case 'T':
			ctrl = cur
			if prev == 'Q' || prev == 'q' || prev == 'T' || prev == 't' {
				ctrl = cur.Scale(2).Sub(lastCtrl)
			}
			cur = abs(args[0], args[1])
			p.QuadTo(ctrl.X, ctrl.Y, cur.X, cur.Y)
		case 'A':
			end := abs(args[5], args[6])
			p.ArcTo(args[0], args[1], args[2], args[3] == 1, args[4] == 1, end.X, end.Y)
			cur = end
		}

		lastCtrl = ctrl
		prev = cmd
	}

	return p, nil
}
