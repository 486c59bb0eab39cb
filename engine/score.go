package engine

import "variant-engine/board"

// Score holds a middlegame and an endgame component. All evaluation terms
// stay tapered until the final phase interpolation.
type Score struct {
	MG, EG int
}

// S builds a tapered score.
func S(mg, eg int) Score { return Score{mg, eg} }

func (s Score) Add(o Score) Score { return Score{s.MG + o.MG, s.EG + o.EG} }
func (s Score) Sub(o Score) Score { return Score{s.MG - o.MG, s.EG - o.EG} }
func (s Score) Mul(n int) Score   { return Score{s.MG * n, s.EG * n} }
func (s Score) Div(n int) Score   { return Score{s.MG / n, s.EG / n} }
func (s Score) Neg() Score        { return Score{-s.MG, -s.EG} }
func (s Score) IsZero() bool      { return s.MG == 0 && s.EG == 0 }

// Game phase bounds. A phase of PhaseMidgame means full middlegame weight.
const (
	PhaseMidgame = 128
	PhaseEndgame = 0

	MidgameLimit board.Value = 15258
	EndgameLimit board.Value = 3915
)

// Endgame scale factors, applied to the endgame component only.
const (
	ScaleFactorDraw   = 0
	ScaleFactorNormal = 64
)

// pieceScore returns the tapered base value of a piece type.
func pieceScore(pt board.PieceType) Score {
	return Score{int(board.PieceValueMg[pt]), int(board.PieceValueEg[pt])}
}
