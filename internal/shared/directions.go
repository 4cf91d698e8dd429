package shared

// Direction is one of the eight compass rays. North points from White's
// home rank toward Black's.
type Direction uint8

const (
	DirN Direction = iota
	DirNE
	DirE
	DirSE
	DirS
	DirSW
	DirW
	DirNW
)

var (
	Orthogonals   = []Direction{DirN, DirE, DirS, DirW}
	Diagonals     = []Direction{DirNE, DirSE, DirSW, DirNW}
	AllDirections = []Direction{DirN, DirNE, DirE, DirSE, DirS, DirSW, DirW, DirNW}
)

var directionDeltas = [8][2]int{
	DirN:  {1, 0},
	DirNE: {1, 1},
	DirE:  {0, 1},
	DirSE: {-1, 1},
	DirS:  {-1, 0},
	DirSW: {-1, -1},
	DirW:  {0, -1},
	DirNW: {1, -1},
}

// Delta returns the rank and file step of the direction.
func (d Direction) Delta() (dr, df int) {
	if d > DirNW {
		return 0, 0
	}
	delta := directionDeltas[d]
	return delta[0], delta[1]
}

func (d Direction) String() string {
	switch d {
	case DirN:
		return "N"
	case DirNE:
		return "NE"
	case DirE:
		return "E"
	case DirSE:
		return "SE"
	case DirS:
		return "S"
	case DirSW:
		return "SW"
	case DirW:
		return "W"
	case DirNW:
		return "NW"
	default:
		return "?"
	}
}

// Offset returns the square dr ranks and df files away, if it is on the board.
func (s Square) Offset(dr, df int) (Square, bool) {
	if !s.Valid() {
		return 0, false
	}
	return SquareFromCoords(s.Rank()+dr, s.File()+df)
}

// Step moves one square along d.
func (s Square) Step(d Direction) (Square, bool) {
	dr, df := d.Delta()
	if dr == 0 && df == 0 {
		return 0, false
	}
	return s.Offset(dr, df)
}

// Ray lists the squares from s (exclusive) to the board edge along d.
func Ray(s Square, d Direction) []Square {
	var out []Square
	cur := s
	for {
		next, ok := cur.Step(d)
		if !ok {
			return out
		}
		out = append(out, next)
		cur = next
	}
}
