package main

import (
	"flag"
	"fmt"
	"os"

	tm "github.com/buger/goterm"

	"variant-engine/board"
	"variant-engine/engine"
)

func main() {
	variant := flag.String("variant", "chess", "variant rule set (see -list)")
	fen := flag.String("fen", "", "FEN string (defaults to the variant's start position)")
	list := flag.Bool("list", false, "list supported variants and exit")
	flag.Parse()

	if *list {
		for _, name := range board.VariantNames() {
			fmt.Println(name)
		}
		return
	}

	rules, err := board.VariantByName(*variant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unknown variant: %v\n", err)
		os.Exit(2)
	}

	position := *fen
	if position == "" {
		position = rules.StartFEN
	}
	pos, err := board.ParseFEN(position, rules)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}

	v, tr := engine.NewEvaluator().TraceEval(pos)

	tm.Println(tm.Bold(fmt.Sprintf("%s: %s", rules.Name, position)))
	tm.Println(tr.String())

	cp := float64(tr.Total()) / float64(board.PawnValueEg)
	verdict := fmt.Sprintf("side to move: %+d internal units (%+.2f pawns for white)", v, cp)
	switch {
	case tr.Total() > 0:
		tm.Println(tm.Color(verdict, tm.GREEN))
	case tr.Total() < 0:
		tm.Println(tm.Color(verdict, tm.RED))
	default:
		tm.Println(verdict)
	}
	tm.Flush()
}
