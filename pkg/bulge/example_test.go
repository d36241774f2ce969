package bulge_test

import (
	"fmt"

	"github.com/matzehuels/rnagraph/pkg/bulge"
)

func ExampleFromDotBracket() {
	g, err := bulge.FromDotBracket("..((..))..", bulge.Options{Name: "demo"})
	if err != nil {
		panic(err)
	}
	fmt.Println(g.ElementString())
	for _, e := range g.Elements() {
		fmt.Println(e.Name(), e.Define)
	}
	// Output:
	// ffsshhsstt
	// s0 [3 4 7 8]
	// h0 [5 6]
	// f0 [1 2]
	// t0 [9 10]
}

func ExampleGraph_Text() {
	g, _ := bulge.FromDotBracket("(.(.).)", bulge.Options{Name: "bulge"})
	fmt.Print(g.Text())
	// Output:
	// name bulge
	// length 7
	// seq NNNNNNN
	// seq_ids A:1 A:2 A:3 A:4 A:5 A:6 A:7
	// define s0 1 1 7 7
	// define i0 2 2 6 6
	// define s1 3 3 5 5
	// define h0 4 4
	// connect s0 i0
	// connect s1 i0 h0
}

func ExampleGraph_Loops() {
	g, _ := bulge.FromDotBracket("(.(..).(..).)", bulge.Options{})
	for _, loop := range g.Loops() {
		class, _ := g.ClassifyLoop(loop)
		for _, e := range loop {
			fmt.Print(g.NameOf(e), " ")
		}
		fmt.Println(class)
	}
	// Output:
	// m0 m1 m2 nested
}

func ExampleAnalysis_BuildOrder() {
	g, _ := bulge.FromDotBracket("(.(..).(..).)", bulge.Options{})
	a := bulge.Analyze(g)
	for _, st := range a.BuildOrder() {
		fmt.Printf("%s -%s-> %s\n", g.NameOf(st.Prev), g.NameOf(st.Loop), g.NameOf(st.Next))
	}
	// Output:
	// s0 -m0-> s1
	// s1 -m1-> s2
}

func ExampleFromDotBracketComponents() {
	gs, _ := bulge.FromDotBracketComponents("((..))&((...))", bulge.Options{Name: "pair"})
	for _, g := range gs {
		fmt.Println(g.Name(), g.DotBracket())
	}
	// Output:
	// pair_1 ((..))
	// pair_2 ((...))
}
