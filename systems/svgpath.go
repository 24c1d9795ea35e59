package systems

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
)

const curveSamples = 8

// pathScanner tokenises SVG path data.
type pathScanner struct {
	s   string
	pos int
}

func (p *pathScanner) skipSeparators() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r', ',':
			p.pos++
		default:
			return
		}
	}
}

// command returns the next command letter, or 0 if a number follows.
func (p *pathScanner) command() byte {
	p.skipSeparators()
	if p.pos >= len(p.s) {
		return 0
	}
	c := p.s[p.pos]
	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		if c == 'e' || c == 'E' {
			return 0
		}
		p.pos++
		return c
	}
	return 0
}

func (p *pathScanner) hasNumber() bool {
	p.skipSeparators()
	if p.pos >= len(p.s) {
		return false
	}
	c := p.s[p.pos]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func (p *pathScanner) number() (float64, error) {
	p.skipSeparators()
	start := p.pos
	if p.pos < len(p.s) && (p.s[p.pos] == '-' || p.s[p.pos] == '+') {
		p.pos++
	}
	dot, exp := false, false
scan:
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !dot && !exp:
			dot = true
		case (c == 'e' || c == 'E') && !exp:
			exp = true
			if p.pos+1 < len(p.s) && (p.s[p.pos+1] == '-' || p.s[p.pos+1] == '+') {
				p.pos++
			}
		default:
			break scan
		}
		p.pos++
	}
	v, err := strconv.ParseFloat(p.s[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("path data at %d: %w", start, err)
	}
	return v, nil
}

func (p *pathScanner) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		v, err := p.number()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// FlattenPath converts SVG path data into polylines, one per subpath.
// Curves are sampled; arcs are approximated by a line to their endpoint.
func FlattenPath(d string) ([][]r2.Vec, error) {
	sc := &pathScanner{s: d}
	var (
		out      [][]r2.Vec
		cur      []r2.Vec
		pen      r2.Vec
		start    r2.Vec
		lastCtrl r2.Vec
		lastCmd  byte
	)
	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}
	lineTo := func(p r2.Vec) {
		if cur == nil {
			cur = []r2.Vec{pen}
		}
		cur = append(cur, p)
		pen = p
	}

	var cmd byte
	for {
		if c := sc.command(); c != 0 {
			cmd = c
		} else if !sc.hasNumber() {
			break
		} else if cmd == 0 {
			return nil, fmt.Errorf("path data must start with a command")
		}

		rel := cmd >= 'a'
		var base r2.Vec
		if rel {
			base = pen
		}
		at := func(x, y float64) r2.Vec { return r2.Vec{X: base.X + x, Y: base.Y + y} }

		switch cmd | 0x20 {
		case 'm':
			v, err := sc.numbers(2)
			if err != nil {
				return nil, err
			}
			flush()
			pen = at(v[0], v[1])
			start = pen
			// Implicit coordinates after a moveto are linetos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'l':
			v, err := sc.numbers(2)
			if err != nil {
				return nil, err
			}
			lineTo(at(v[0], v[1]))
		case 'h':
			v, err := sc.numbers(1)
			if err != nil {
				return nil, err
			}
			lineTo(r2.Vec{X: base.X + v[0], Y: pen.Y})
		case 'v':
			v, err := sc.numbers(1)
			if err != nil {
				return nil, err
			}
			lineTo(r2.Vec{X: pen.X, Y: base.Y + v[0]})
		case 'c':
			v, err := sc.numbers(6)
			if err != nil {
				return nil, err
			}
			c1, c2, end := at(v[0], v[1]), at(v[2], v[3]), at(v[4], v[5])
			cubic(pen, c1, c2, end, lineTo)
			lastCtrl = c2
		case 's':
			v, err := sc.numbers(4)
			if err != nil {
				return nil, err
			}
			c1 := pen
			if l := lastCmd | 0x20; l == 'c' || l == 's' {
				c1 = r2.Sub(r2.Scale(2, pen), lastCtrl)
			}
			c2, end := at(v[0], v[1]), at(v[2], v[3])
			cubic(pen, c1, c2, end, lineTo)
			lastCtrl = c2
		case 'q':
			v, err := sc.numbers(4)
			if err != nil {
				return nil, err
			}
			c, end := at(v[0], v[1]), at(v[2], v[3])
			quad(pen, c, end, lineTo)
			lastCtrl = c
		case 't':
			v, err := sc.numbers(2)
			if err != nil {
				return nil, err
			}
			c := pen
			if l := lastCmd | 0x20; l == 'q' || l == 't' {
				c = r2.Sub(r2.Scale(2, pen), lastCtrl)
			}
			end := at(v[0], v[1])
			quad(pen, c, end, lineTo)
			lastCtrl = c
		case 'a':
			v, err := sc.numbers(7)
			if err != nil {
				return nil, err
			}
			lineTo(at(v[5], v[6]))
		case 'z':
			if cur != nil {
				lineTo(start)
			}
			flush()
			pen = start
			lastCmd, cmd = 'z', 0
			continue
		default:
			return nil, fmt.Errorf("path data: unsupported command %q", cmd)
		}
		lastCmd = cmd
	}
	flush()
	return out, nil
}

func cubic(p0, p1, p2, p3 r2.Vec, emit func(r2.Vec)) {
	for i := 1; i <= curveSamples; i++ {
		t := float64(i) / curveSamples
		u := 1 - t
		emit(r2.Vec{
			X: u*u*u*p0.X + 3*u*u*t*p1.X + 3*u*t*t*p2.X + t*t*t*p3.X,
			Y: u*u*u*p0.Y + 3*u*u*t*p1.Y + 3*u*t*t*p2.Y + t*t*t*p3.Y,
		})
	}
}

func quad(p0, p1, p2 r2.Vec, emit func(r2.Vec)) {
	for i := 1; i <= curveSamples; i++ {
		t := float64(i) / curveSamples
		u := 1 - t
		emit(r2.Vec{
			X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
			Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
		})
	}
}
