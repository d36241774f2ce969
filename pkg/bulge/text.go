package bulge

import (
	"bufio"
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/pairs"
	"github.com/matzehuels/rnagraph/pkg/sequence"
)

// Text serializes g:
//
//	name hairpin
//	length 10
//	seq GGAAACCCUU
//	seq_ids A:1 A:2 ... A:10
//	define f0 1 2
//	define s0 3 4 7 8
//	define h0 5 6
//	define t0 9 10
//	connect s0 f0 h0 t0
//	info source rfam
//
// Define lines are ordered by the first position each element touches;
// zero-length elements list no positions. Only stems have connect lines.
func (g *Graph) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "name %s\n", g.name)
	fmt.Fprintf(&b, "length %d\n", g.n)
	fmt.Fprintf(&b, "seq %s\n", g.seq.String())
	ids := g.seq.ResidueIDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	fmt.Fprintf(&b, "seq_ids %s\n", strings.Join(parts, " "))

	for _, i := range g.defineOrder() {
		b.WriteString("define ")
		b.WriteString(g.label(i))
		for _, p := range g.nodes[i].define {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(p))
		}
		b.WriteByte('\n')
	}
	for _, s := range g.ElementsOf(Stem) {
		conns := g.connections(int(s))
		if len(conns) == 0 {
			continue
		}
		b.WriteString("connect ")
		b.WriteString(g.label(int(s)))
		for _, c := range conns {
			b.WriteByte(' ')
			b.WriteString(g.label(c))
		}
		b.WriteByte('\n')
	}
	for _, in := range g.infos {
		fmt.Fprintf(&b, "info %s %s\n", in.Key, in.Value)
	}
	return b.String()
}

func (g *Graph) defineOrder() []int {
	order := make([]int, len(g.nodes))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(x, y int) int {
		return cmp.Or(
			cmp.Compare(g.defineA(x)[0], g.defineA(y)[0]),
			cmp.Compare(g.nodes[x].kind, g.nodes[y].kind),
			cmp.Compare(g.nodes[x].num, g.nodes[y].num),
		)
	})
	return order
}

// FromText parses the text produced by [Graph.Text]. Blank lines and lines
// starting with '#' are ignored. The pair table is rebuilt from the stems
// and the positions of zero-length elements from the stems they join.
func FromText(s string) (*Graph, error) {
	var (
		name     = "untitled"
		length   = -1
		seqText  string
		seqIDs   []sequence.ResidueID
		infos    []Info
		nodes    []*node
		index    = make(map[string]int)
		connects [][]string
	)
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		key, args := fields[0], fields[1:]
		switch key {
		case "name":
			if len(args) > 0 {
				name = strings.Join(args, "_")
			}
		case "length":
			n, err := oneInt(args)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", line)
			}
			length = n
		case "seq":
			if len(args) != 1 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: seq takes one argument", line)
			}
			seqText = args[0]
		case "seq_ids":
			for _, a := range args {
				id, err := sequence.ParseResidueID(a)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", line)
				}
				seqIDs = append(seqIDs, id)
			}
		case "define":
			nd, elemName, err := parseDefine(args)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", line)
			}
			if _, dup := index[elemName]; dup {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: %s defined twice", line, elemName)
			}
			index[elemName] = len(nodes)
			nodes = append(nodes, nd)
		case "connect":
			if len(args) < 2 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: connect needs a stem and a neighbour", line)
			}
			connects = append(connects, args)
		case "info":
			if len(args) == 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: info needs a key", line)
			}
			infos = append(infos, Info{Key: args[0], Value: strings.Join(args[1:], " ")})
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: unknown key %q", line, key)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "reading text")
	}

	seq, err := textSequence(length, seqText, seqIDs, nodes)
	if err != nil {
		return nil, err
	}

	a := &arena{n: seq.Len(), breaks: seq.Breaks()}
	for _, nd := range nodes {
		a.add(nd)
	}
	for _, c := range connects {
		si, ok := index[c[0]]
		if !ok || !a.nodes[si].stem() {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "connect refers to unknown stem %q", c[0])
		}
		for _, other := range c[1:] {
			oi, ok := index[other]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "connect refers to unknown element %q", other)
			}
			a.link(si, oi)
		}
	}
	if err := a.assignZeroLength(true); err != nil {
		return nil, err
	}

	t := pairs.NewTable(seq.Len())
	for _, nd := range a.nodes {
		if !nd.stem() {
			continue
		}
		d := nd.define
		if d[0] < 1 || d[0] > d[1] || d[1] >= d[2] || d[2] > d[3] || d[3] > seq.Len() || d[1]-d[0] != d[3]-d[2] {
			return nil, errors.Integrity("stem %s has malformed define %v", elementName(nd.kind, nd.num), d)
		}
		for k := 0; k <= d[1]-d[0]; k++ {
			x, y := d[0]+k, d[3]-k
			if t[x] != pairs.Unpaired || t[y] != pairs.Unpaired {
				return nil, errors.Integrity("position %d or %d paired twice", x, y)
			}
			t[x], t[y] = y, x
		}
	}
	return freeze(a, t, seq, name, infos)
}

func oneInt(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one integer, got %d fields", len(args))
	}
	return strconv.Atoi(args[0])
}

func parseDefine(args []string) (*node, string, error) {
	if len(args) == 0 {
		return nil, "", fmt.Errorf("define needs an element name")
	}
	k, num, err := ParseName(args[0])
	if err != nil {
		return nil, "", err
	}
	nd := &node{kind: k, num: num, labeled: true}
	for _, a := range args[1:] {
		p, err := strconv.Atoi(a)
		if err != nil {
			return nil, "", fmt.Errorf("define %s: %w", args[0], err)
		}
		nd.define = append(nd.define, p)
	}
	if len(nd.define)%2 != 0 || (k == Stem && len(nd.define) != 4) {
		return nil, "", fmt.Errorf("define %s has %d positions", args[0], len(nd.define))
	}
	if k == Interior {
		nd.weight = 2
	}
	return nd, args[0], nil
}

// textSequence reconciles the length, seq and seq_ids lines. Breaks come
// from '&' in seq, or from chain changes in seq_ids when seq has none.
func textSequence(length int, seqText string, ids []sequence.ResidueID, nodes []*node) (*sequence.Sequence, error) {
	if length < 0 {
		for _, nd := range nodes {
			for _, p := range nd.define {
				length = max(length, p)
			}
		}
	}
	if length <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "structure length is missing")
	}
	var breaks []int
	if len(ids) > 0 {
		if len(ids) != length {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%d seq_ids for length %d", len(ids), length)
		}
		breaks = sequence.BreaksFromResidueIDs(ids)
	}
	if seqText == "" {
		return sequence.Unknown(length, breaks)
	}
	seq, err := sequence.Parse(seqText)
	if err != nil {
		return nil, err
	}
	if seq.Len() != length {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "seq has %d residues, length is %d", seq.Len(), length)
	}
	if len(seq.Breaks()) == 0 && len(breaks) > 0 {
		return sequence.New(seq.Residues(), breaks)
	}
	if len(breaks) > 0 && !slices.Equal(breaks, seq.Breaks()) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "seq breaks %v differ from seq_ids breaks %v", seq.Breaks(), breaks)
	}
	return seq, nil
}
