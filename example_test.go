package md2tex_test

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	md2tex "github.com/alnah/go-md2tex"
)

func Example() {
	svc := md2tex.New()

	out, err := svc.Convert(context.Background(), md2tex.Input{
		Markdown: "Results confirm earlier work [@doe2021; @smith2023].",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Latex)
	// Output:
	// Results confirm earlier work \cite{doe2021,smith2023}.
}

func ExampleService_Render() {
	svc := md2tex.New(md2tex.WithNow(func() time.Time {
		return time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	}))

	tex, err := svc.Render(context.Background(), md2tex.RenderInput{
		Markdown:   "## Abstract\n\nWe measure **widget** dynamics.\n",
		ConfigYAML: []byte("title:\n  long: Widget Dynamics\n"),
		Template:   "<PY-RPL:LONG-TITLE-STR>\\date{<PY-RPL:DOC-DATE>}\n<PY-RPL:ABSTRACT>",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(strings.TrimSpace(string(tex)))
	// Output:
	// \title{Widget Dynamics}
	// \date{2026-03-07}
	// We measure \textbf{widget} dynamics.
}
