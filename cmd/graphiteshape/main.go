// Command graphiteshape is a small interactive shell for exercising the
// graphite package: it builds a synthetic demo font, shapes whatever
// text you type, and prints the resulting slot positions.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/slunski/graphite/graphite"
)

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " i ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ! ",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func main() {
	initDisplay()

	ppm := flag.Float64("ppm", 12, "pixels per em to shape at")
	alphabet := flag.String("alphabet", "abcdefghijklmnopqrstuvwxyz ", "runes the demo font knows")
	advance := flag.Float64("advance", 600, "fixed glyph advance, in font design units")
	trace := flag.String("trace", "", "write a JSON shaping trace to this file after each line")
	flag.Parse()

	base := newDemoFace(*alphabet, float32(*advance))
	face, err := graphite.NewFace(demoTables{silf: emptySilfTable}, graphite.WithBaseFont(base))
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	font := graphite.NewFont(face, float32(*ppm), base.Upem(), graphite.AdvanceFromFace(face))

	repl, err := readline.New("graphite> ")
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	defer repl.Close()

	pterm.Info.Println("Type text to shape it. Quit with <ctrl>D.")
	for {
		line, err := repl.Readline()
		if err == io.EOF {
			return
		}
		if err != nil {
			pterm.Error.Println(err.Error())
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		shapeAndPrint(face, font, line, *trace)
	}
}

// dumper is the subset of graphite's tracer this command needs; the
// concrete type NewTracer returns is unexported, so this local
// interface is what lets shapeAndPrint hold onto it between EnableTrace
// and Dump.
type dumper interface {
	Dump(filename string) error
}

func shapeAndPrint(face *graphite.Face, font *graphite.Font, text, traceFile string) {
	seg := graphite.NewSegment(face, 0, "", graphite.DirLTR, nil, []rune(text))

	var tracer dumper
	if traceFile != "" {
		t := graphite.NewTracer()
		seg.EnableTrace(t)
		tracer = t
	}

	advance := font.Shape(seg)

	rows := [][]string{{"glyph", "origin.x", "origin.y", "before", "after"}}
	for s := seg.First; s != nil; s = s.Next() {
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.GlyphID()),
			fmt.Sprintf("%.1f", s.Origin().X),
			fmt.Sprintf("%.1f", s.Origin().Y),
			fmt.Sprintf("%d", s.Before),
			fmt.Sprintf("%d", s.After),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	pterm.Printf("advance: %.1f, %.1f\n", advance.X, advance.Y)

	if tracer != nil {
		if err := tracer.Dump(traceFile); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
}
