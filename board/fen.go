package board

import (
	"errors"
	"strconv"
	"strings"
)

func pieceFromChar(ch rune) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'S':
		return WhiteShogiPawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 's':
		return BlackShogiPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

func charFromPiece(p Piece) rune {
	const white = "?PSNBRQK"
	const black = "?psnbrqk"
	if p.Color() == White {
		return rune(white[p.Type()])
	}
	return rune(black[p.Type()])
}

// ParseFEN parses an extended FEN under the given rule set and returns the
// resulting position. Extensions over plain FEN: a bracketed hand after the
// placement field ("[QRq]"), a '~' suffix marking a promoted piece, and for
// check-count variants a "w+b" checks-remaining field before the halfmove
// clock.
func ParseFEN(fen string, rules *Variant) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, errors.New("invalid FEN: not enough fields")
	}

	pos := NewPosition(rules)

	placement := fields[0]
	hand := ""
	if i := strings.IndexByte(placement, '['); i >= 0 {
		j := strings.IndexByte(placement, ']')
		if j < i {
			return nil, errors.New("invalid FEN: unterminated hand")
		}
		hand = placement[i+1 : j]
		placement = placement[:i]
	}

	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return nil, errors.New("invalid FEN: incorrect number of ranks")
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			switch {
			case ch >= '1' && ch <= '8':
				file += int(ch - '0')
			case ch == '~':
				if file == 0 {
					return nil, errors.New("invalid FEN: dangling promotion marker")
				}
				pos.SetPromoted(SquareAt(file-1, rank), Pawn)
			default:
				piece := pieceFromChar(ch)
				if piece == NoPiece {
					return nil, errors.New("invalid FEN: unrecognized piece character")
				}
				if file >= 8 {
					return nil, errors.New("invalid FEN: too many squares in rank")
				}
				pos.SetPiece(SquareAt(file, rank), piece)
				file++
			}
		}
		if file != 8 {
			return nil, errors.New("invalid FEN: rank does not have 8 columns")
		}
	}

	for _, ch := range hand {
		piece := pieceFromChar(ch)
		if piece == NoPiece {
			return nil, errors.New("invalid FEN: unrecognized hand piece")
		}
		pos.AddToHand(piece.Color(), piece.Type(), 1)
	}

	switch fields[1] {
	case "w":
		pos.sideToMove = White
	case "b":
		pos.sideToMove = Black
	default:
		return nil, errors.New("invalid FEN: side to move must be 'w' or 'b'")
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				pos.castling |= CastleWhiteK
			case 'Q':
				pos.castling |= CastleWhiteQ
			case 'k':
				pos.castling |= CastleBlackK
			case 'q':
				pos.castling |= CastleBlackQ
			default:
				return nil, errors.New("invalid FEN: invalid castling rights character")
			}
		}
	}

	if fields[3] != "-" {
		if len(fields[3]) != 2 {
			return nil, errors.New("invalid FEN: invalid en passant square")
		}
		fc, rc := fields[3][0], fields[3][1]
		if fc < 'a' || fc > 'h' || rc < '1' || rc > '8' {
			return nil, errors.New("invalid FEN: en passant square out of range")
		}
		pos.epSquare = SquareAt(int(fc-'a'), int(rc-'1'))
	}

	next := 4
	if rules.MaxCheckCount > 0 && len(fields) > next && strings.ContainsRune(fields[next], '+') {
		parts := strings.SplitN(fields[next], "+", 2)
		wRem, err1 := strconv.Atoi(parts[0])
		bRem, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return nil, errors.New("invalid FEN: bad checks-remaining field")
		}
		pos.checksGiven[White] = int8(rules.MaxCheckCount - wRem)
		pos.checksGiven[Black] = int8(rules.MaxCheckCount - bRem)
		next++
	}

	// Halfmove clock and fullmove number are accepted but not retained; the
	// evaluator has no use for them.
	for ; next < len(fields); next++ {
		if _, err := strconv.Atoi(fields[next]); err != nil {
			return nil, errors.New("invalid FEN: trailing field is not a number")
		}
	}

	return pos, nil
}

// ToFEN renders the position back into the extended FEN format.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := SquareAt(file, rank)
			pc := p.squares[sq]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteRune(charFromPiece(pc))
			if p.unpromoted[sq] != NoPiece {
				sb.WriteByte('~')
			}
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.rules.PieceDrops || p.rules.CapturesToHand {
		sb.WriteByte('[')
		for _, c := range []Color{White, Black} {
			for pt := King; pt >= Pawn; pt-- {
				for i := 0; i < int(p.hands[c][pt]); i++ {
					sb.WriteRune(charFromPiece(MakePiece(c, pt)))
				}
			}
		}
		sb.WriteByte(']')
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	if p.castling == 0 {
		sb.WriteByte('-')
	} else {
		if p.castling&CastleWhiteK != 0 {
			sb.WriteByte('K')
		}
		if p.castling&CastleWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if p.castling&CastleBlackK != 0 {
			sb.WriteByte('k')
		}
		if p.castling&CastleBlackQ != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')

	if p.epSquare != NoSquare {
		sb.WriteByte('a' + byte(p.epSquare.File()))
		sb.WriteByte('1' + byte(p.epSquare.Rank()))
	} else {
		sb.WriteByte('-')
	}

	if p.rules.MaxCheckCount > 0 {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(p.ChecksRemaining(White)))
		sb.WriteByte('+')
		sb.WriteString(strconv.Itoa(p.ChecksRemaining(Black)))
	}

	sb.WriteString(" 0 1")
	return sb.String()
}
