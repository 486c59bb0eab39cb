package board

// Position is a read-only snapshot of a game state: piece placement, hands,
// side to move and the rule set in force. The evaluator never mutates one;
// the only writers are ParseFEN and the test helpers.
type Position struct {
	byColor [ColorNB]uint64
	byType  [PieceTypeNB]uint64 // byType[AllPieces] holds the union
	squares [64]Piece

	sideToMove Color
	castling   CastlingRights
	epSquare   Square

	hands       [ColorNB][PieceTypeNB]int8
	checksGiven [ColorNB]int8

	// unpromoted remembers what a promoted piece demotes to when captured,
	// for rule sets where captures go to hand.
	unpromoted [64]Piece

	rules *Variant
}

// NewPosition returns an empty board governed by the given rule set.
func NewPosition(rules *Variant) *Position {
	p := &Position{rules: rules, epSquare: NoSquare}
	return p
}

// Rules returns the variant in force.
func (p *Position) Rules() *Variant { return p.rules }

// SideToMove returns the side whose turn it is.
func (p *Position) SideToMove() Color { return p.sideToMove }

// Occupied returns the union of all pieces.
func (p *Position) Occupied() uint64 { return p.byType[AllPieces] }

// ByColor returns all pieces of one side.
func (p *Position) ByColor(c Color) uint64 { return p.byColor[c] }

// ByType returns all pieces of one type, both sides.
func (p *Position) ByType(pt PieceType) uint64 { return p.byType[pt] }

// Bitboard returns the pieces of one side and type.
func (p *Position) Bitboard(c Color, pt PieceType) uint64 {
	return p.byColor[c] & p.byType[pt]
}

// PieceOn returns the piece standing on sq, or NoPiece.
func (p *Position) PieceOn(sq Square) Piece { return p.squares[sq] }

// Count returns how many pieces of the given side and type are on the board.
func (p *Position) Count(c Color, pt PieceType) int {
	return Popcount(p.Bitboard(c, pt))
}

// CountAll returns the number of pieces c has on the board.
func (p *Position) CountAll(c Color) int { return Popcount(p.byColor[c]) }

// KingSq returns c's king square, or NoSquare in royal-less positions.
func (p *Position) KingSq(c Color) Square {
	kings := p.Bitboard(c, King)
	if kings == 0 {
		return NoSquare
	}
	return Lsb(kings)
}

// Pawns returns both pawn types of one side. The evaluator mostly treats
// shogi pawns as pawns for structure purposes.
func (p *Position) Pawns(c Color) uint64 {
	return p.byColor[c] & (p.byType[Pawn] | p.byType[ShogiPawn])
}

// NonPawnMaterial sums the middlegame piece values of c's non-pawn,
// non-king pieces.
func (p *Position) NonPawnMaterial(c Color) Value {
	var npm Value
	for _, pt := range []PieceType{Knight, Bishop, Rook, Queen} {
		npm += PieceValueMg[pt] * Value(p.Count(c, pt))
	}
	return npm
}

// CountInHand returns how many pieces of type pt side c holds in hand.
// AllPieces counts the whole hand.
func (p *Position) CountInHand(c Color, pt PieceType) int {
	if pt == AllPieces {
		n := 0
		for t := Pawn; t < PieceTypeNB; t++ {
			n += int(p.hands[c][t])
		}
		return n
	}
	return int(p.hands[c][pt])
}

// ChecksGiven returns how many checks c has delivered so far.
func (p *Position) ChecksGiven(c Color) int { return int(p.checksGiven[c]) }

// ChecksRemaining returns how many checks c still needs for a check-count win.
func (p *Position) ChecksRemaining(c Color) int {
	return p.rules.MaxCheckCount - int(p.checksGiven[c])
}

// CanCastle reports whether c retains any castling right.
func (p *Position) CanCastle(c Color) bool {
	if c == White {
		return p.castling&(CastleWhiteK|CastleWhiteQ) != 0
	}
	return p.castling&(CastleBlackK|CastleBlackQ) != 0
}

// UnpromotedPieceOn returns the demotion type of a promoted piece on sq,
// or AllPieces when the square holds nothing promoted.
func (p *Position) UnpromotedPieceOn(sq Square) PieceType {
	return p.unpromoted[sq].Type()
}

// AttackersTo returns all pieces of both sides attacking sq under the given
// occupancy.
func (p *Position) AttackersTo(sq Square, occ uint64) uint64 {
	attackers := (PawnAttacksFrom(White, sq) & p.Bitboard(Black, Pawn)) |
		(PawnAttacksFrom(Black, sq) & p.Bitboard(White, Pawn)) |
		(ShiftNorth(sq.Bit()) & p.Bitboard(Black, ShogiPawn)) |
		(ShiftSouth(sq.Bit()) & p.Bitboard(White, ShogiPawn)) |
		(KnightAttacksBB(sq) & p.byType[Knight]) |
		(KingAttacksBB(sq) & p.byType[King])
	attackers |= RookAttacksBB(sq, occ) & (p.byType[Rook] | p.byType[Queen])
	attackers |= BishopAttacksBB(sq, occ) & (p.byType[Bishop] | p.byType[Queen])
	return attackers
}

// SliderBlockers computes the pieces blocking a slider attack from the given
// slider set toward sq. A blocker of either color stands alone between sq and
// one slider; pinners collects those sliders.
func (p *Position) SliderBlockers(sliders uint64, sq Square) (blockers, pinners uint64) {
	snipers := sliders & ((PseudoRookAttacksBB(sq) & (p.byType[Rook] | p.byType[Queen])) |
		(BishopAttacksBB(sq, 0) & (p.byType[Bishop] | p.byType[Queen])))
	occ := p.Occupied() &^ snipers
	for x := snipers; x != 0; x &= x - 1 {
		sniper := Lsb(x)
		between := BetweenBB(sq, sniper) & occ
		if between != 0 && !MoreThanOne(between) {
			blockers |= between
			if between&p.byColor[p.squares[sq].Color()] != 0 {
				pinners |= sniper.Bit()
			}
		}
	}
	return blockers, pinners
}

// BlockersForKing returns c's and the opponent's pieces shielding c's king
// from enemy sliders.
func (p *Position) BlockersForKing(c Color) uint64 {
	ksq := p.KingSq(c)
	if ksq == NoSquare {
		return 0
	}
	blockers, _ := p.SliderBlockers(p.byColor[c.Other()], ksq)
	return blockers
}

// SetPiece places a piece, replacing whatever stood on sq. Test and FEN
// parsing helper.
func (p *Position) SetPiece(sq Square, pc Piece) {
	p.RemovePiece(sq)
	if pc == NoPiece {
		return
	}
	b := sq.Bit()
	p.squares[sq] = pc
	p.byColor[pc.Color()] |= b
	p.byType[pc.Type()] |= b
	p.byType[AllPieces] |= b
}

// RemovePiece clears sq.
func (p *Position) RemovePiece(sq Square) {
	pc := p.squares[sq]
	if pc == NoPiece {
		return
	}
	b := sq.Bit()
	p.squares[sq] = NoPiece
	p.byColor[pc.Color()] &^= b
	p.byType[pc.Type()] &^= b
	p.byType[AllPieces] &^= b
	p.unpromoted[sq] = NoPiece
}

// SetPromoted marks the piece on sq as promoted from the given type.
func (p *Position) SetPromoted(sq Square, from PieceType) {
	pc := p.squares[sq]
	if pc == NoPiece {
		return
	}
	p.unpromoted[sq] = MakePiece(pc.Color(), from)
}

// AddToHand puts n pieces of type pt into c's hand.
func (p *Position) AddToHand(c Color, pt PieceType, n int) {
	p.hands[c][pt] += int8(n)
}

// SetSideToMove, SetCastling and SetChecksGiven complete the test surface.
func (p *Position) SetSideToMove(c Color)         { p.sideToMove = c }
func (p *Position) SetCastling(cr CastlingRights) { p.castling = cr }
func (p *Position) SetChecksGiven(c Color, n int) { p.checksGiven[c] = int8(n) }

// Convenience rule predicates, mirroring the Variant fields.
func (p *Position) PieceDrops() bool        { return p.rules.PieceDrops }
func (p *Position) CapturesToHand() bool    { return p.rules.CapturesToHand }
func (p *Position) MustCapture() bool       { return p.rules.MustCapture }
func (p *Position) CheckingPermitted() bool { return p.rules.CheckingPermitted }
func (p *Position) MaxCheckCount() int      { return p.rules.MaxCheckCount }
func (p *Position) ConnectN() int           { return p.rules.ConnectN }
func (p *Position) ExtinctionValue() Value  { return p.rules.ExtinctionValue }
func (p *Position) ShogiDoubledPawn() bool  { return p.rules.ShogiDoubledPawn }
func (p *Position) IsChess960() bool        { return p.rules.Chess960 }
func (p *Position) CaptureTheFlag() bool    { return p.rules.CaptureTheFlag() }
func (p *Position) FlagPiece() PieceType    { return p.rules.FlagPiece }

// FlagRegionBB returns c's target region for the flag race.
func (p *Position) FlagRegionBB(c Color) uint64 { return p.rules.FlagRegion[c] }

// PieceTypes lists the non-king piece types the variant plays with.
func (p *Position) PieceTypes() []PieceType {
	out := make([]PieceType, 0, len(p.rules.UsedPieceTypes))
	for _, pt := range p.rules.UsedPieceTypes {
		if pt != King {
			out = append(out, pt)
		}
	}
	return out
}
