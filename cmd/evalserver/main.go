package main

import (
	"net/http"
	"os"
	"sync"

	"github.com/labstack/echo/v4"

	"variant-engine/board"
	"variant-engine/engine"
)

// Evaluators are a few megabytes of cache tables and not safe for concurrent
// use, so requests borrow one from a pool.
var evaluators = sync.Pool{
	New: func() any { return engine.NewEvaluator() },
}

type evalRequest struct {
	Variant string `json:"variant"`
	FEN     string `json:"fen"`
	Trace   bool   `json:"trace"`
}

type evalResponse struct {
	Variant   string  `json:"variant"`
	FEN       string  `json:"fen"`
	Value     int     `json:"value"`
	Pawns     float64 `json:"pawns"`
	WhiteView int     `json:"white_view"`
	Trace     string  `json:"trace,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func main() {
	port := readEnv("EVALSERVER_PORT", "8080")

	e := echo.New()
	e.HideBanner = true

	e.GET("/api/v1/variants", listVariants)
	e.POST("/api/v1/evaluate", evaluate)

	e.Logger.Fatal(e.Start(":" + port))
}

func listVariants(c echo.Context) error {
	return c.JSON(http.StatusOK, board.VariantNames())
}

func evaluate(c echo.Context) error {
	req := evalRequest{Variant: "chess"}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	rules, err := board.VariantByName(req.Variant)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	fen := req.FEN
	if fen == "" {
		fen = rules.StartFEN
	}
	pos, err := board.ParseFEN(fen, rules)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	ev := evaluators.Get().(*engine.Evaluator)
	defer evaluators.Put(ev)

	v, tr := ev.TraceEval(pos)

	resp := evalResponse{
		Variant:   rules.Name,
		FEN:       fen,
		Value:     int(v),
		Pawns:     float64(tr.Total()) / float64(board.PawnValueEg),
		WhiteView: int(tr.Total()),
	}
	if req.Trace {
		resp.Trace = tr.String()
	}
	return c.JSON(http.StatusOK, resp)
}

func readEnv(name string, defaultValue string) string {
	if env := os.Getenv(name); len(env) > 0 {
		return env
	}
	return defaultValue
}
