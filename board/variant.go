package board

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Variant bundles the rule flags the evaluator consumes. A Variant is
// immutable after construction; positions keep a pointer to one.
type Variant struct {
	Name     string
	StartFEN string

	// Piece set in play. King is present unless the variant removes royalty.
	UsedPieceTypes []PieceType

	PieceDrops        bool
	CapturesToHand    bool
	MustCapture       bool
	CheckingPermitted bool
	MaxCheckCount     int // 0 = no check-count win condition
	ConnectN          int // 0 = no connect-n win condition
	ShogiDoubledPawn  bool
	Chess960          bool

	// ExtinctionValue is the value awarded to a side whose last piece of an
	// extinction type disappears. ValueNone disables the rule; ValueMate
	// means losing the pieces wins (antichess), -ValueMate means it loses.
	ExtinctionValue      Value
	ExtinctionPieceTypes []PieceType

	// Pawn promotion. PromotionRank is relative, 0-based.
	PromotionRank       int
	PromotionPieceTypes []PieceType

	// Shogi-style piece promotion: which type a piece turns into inside the
	// promotion zone. Zero entries mean the piece does not promote.
	PromotedPieceType [PieceTypeNB]PieceType

	// Capture-the-flag win condition: move FlagPiece into FlagRegion.
	FlagPiece  PieceType
	FlagRegion [ColorNB]uint64
}

// PromotionZone returns the zone mask for c.
func (v *Variant) PromotionZone(c Color) uint64 {
	return PromotionZoneBB(c, v.PromotionRank)
}

// CaptureTheFlag reports whether the variant uses the flag-race rule.
func (v *Variant) CaptureTheFlag() bool { return v.FlagPiece != AllPieces }

// DropRegionBB returns where a piece of type pt may be dropped by c.
// Ordinary pawns never drop on the first or last rank; shogi pawns
// additionally stay out of the promotion zone.
func (v *Variant) DropRegionBB(c Color, pt PieceType) uint64 {
	region := AllSquaresBB
	switch pt {
	case Pawn:
		region &^= Rank1BB | Rank8BB
	case ShogiPawn:
		region &^= v.PromotionZone(c)
	}
	return region
}

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var standardPromotions = []PieceType{Knight, Bishop, Rook, Queen}

func baseChess(name string) *Variant {
	return &Variant{
		Name:                name,
		StartFEN:            startFEN,
		UsedPieceTypes:      []PieceType{Pawn, Knight, Bishop, Rook, Queen, King},
		CheckingPermitted:   true,
		ShogiDoubledPawn:    true,
		ExtinctionValue:     ValueNone,
		PromotionRank:       7,
		PromotionPieceTypes: standardPromotions,
	}
}

var variants = func() map[string]*Variant {
	chess := baseChess("chess")

	crazyhouse := baseChess("crazyhouse")
	crazyhouse.StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1"
	crazyhouse.PieceDrops = true
	crazyhouse.CapturesToHand = true

	threecheck := baseChess("3check")
	threecheck.StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 3+3 0 1"
	threecheck.MaxCheckCount = 3

	antichess := baseChess("antichess")
	antichess.MustCapture = true
	antichess.CheckingPermitted = false
	antichess.ExtinctionValue = ValueMate
	antichess.ExtinctionPieceTypes = []PieceType{AllPieces}

	extinction := baseChess("extinction")
	extinction.ExtinctionValue = -ValueMate
	extinction.ExtinctionPieceTypes = []PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

	koth := baseChess("kingofthehill")
	koth.FlagPiece = King
	koth.FlagRegion = [ColorNB]uint64{CenterBB, CenterBB}

	racingkings := baseChess("racingkings")
	racingkings.StartFEN = "8/8/8/8/8/8/krbnNBRK/qrbnNBRQ w - - 0 1"
	racingkings.CheckingPermitted = false
	racingkings.FlagPiece = King
	racingkings.FlagRegion = [ColorNB]uint64{Rank8BB, Rank8BB}

	horde := baseChess("horde")
	horde.StartFEN = "rnbqkbnr/pppppppp/8/1PP2PP1/PPPPPPPP/PPPPPPPP/PPPPPPPP/PPPPPPPP w kq - 0 1"
	horde.ExtinctionValue = -ValueMate
	horde.ExtinctionPieceTypes = []PieceType{AllPieces}

	cfour := &Variant{
		Name:              "cfour",
		StartFEN:          "8/8/8/8/8/8/8/8[PPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPpppppppppppppppppppppppppppppppp] w - - 0 1",
		UsedPieceTypes:    []PieceType{Pawn},
		PieceDrops:        true,
		CheckingPermitted: false,
		ShogiDoubledPawn:  true,
		ExtinctionValue:   ValueNone,
		ConnectN:          4,
	}

	shogun := baseChess("shogun")
	shogun.StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1"
	shogun.PieceDrops = true
	shogun.CapturesToHand = true
	shogun.ShogiDoubledPawn = false
	shogun.PromotionRank = 5
	shogun.PromotedPieceType = [PieceTypeNB]PieceType{Pawn: Queen, Knight: Rook, Bishop: Queen}

	all := []*Variant{chess, crazyhouse, threecheck, antichess, extinction,
		koth, racingkings, horde, cfour, shogun}
	m := make(map[string]*Variant, len(all))
	for _, v := range all {
		m[v.Name] = v
	}
	return m
}()

// VariantByName looks up a built-in rule set.
func VariantByName(name string) (*Variant, error) {
	v, ok := variants[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown variant %q", name)
	}
	return v, nil
}

// VariantNames lists the built-in variants in sorted order.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
