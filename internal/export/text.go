package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/model"
)

// WriteSolution writes the square count followed by one line per square,
// in creation order: new, connect[0], diagonal and connect[1] as x y pairs.
func WriteSolution(w io.Writer, sol model.Solution) error {
	squares := append([]model.Square(nil), sol.Squares...)
	model.SortSquares(squares)

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(squares))
	for _, sq := range squares {
		c := sq.Corners()
		fmt.Fprintf(bw, "%d %d %d %d %d %d %d %d\n",
			c[0].X, c[0].Y, c[1].X, c[1].Y, c[2].X, c[2].Y, c[3].X, c[3].Y)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write solution: %w", err)
	}
	return nil
}

// SaveSolution writes the solution to a file.
func SaveSolution(path string, sol model.Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create solution file: %w", err)
	}
	if err := WriteSolution(f, sol); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSolution parses the format written by WriteSolution. Squares get IDs
// in file order starting from 1. The result is not checked against any
// instance; replay it through a State for that.
func ReadSolution(r io.Reader) ([]model.Square, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func() (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, fmt.Errorf("invalid value %q", sc.Text())
		}
		return v, nil
	}

	count, err := next()
	if err != nil {
		return nil, fmt.Errorf("failed to read square count: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("negative square count %d", count)
	}

	squares := make([]model.Square, 0, count)
	for i := 0; i < count; i++ {
		var v [8]int
		for j := range v {
			if v[j], err = next(); err != nil {
				return nil, fmt.Errorf("failed to read square %d: %w", i+1, err)
			}
		}
		sq := model.NewSquare(i+1,
			model.Pos{X: v[0], Y: v[1]},
			model.Pos{X: v[4], Y: v[5]},
			[2]model.Pos{{X: v[2], Y: v[3]}, {X: v[6], Y: v[7]}})
		if !sq.Valid() {
			return nil, fmt.Errorf("square %d has misaligned corners", i+1)
		}
		squares = append(squares, sq)
	}
	return squares, nil
}

// SaveSolutionReport writes the solution of a run report to a file.
func SaveSolutionReport(path string, report engine.Report) error {
	return SaveSolution(path, report.Solution)
}
