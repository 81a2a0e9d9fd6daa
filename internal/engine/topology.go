package engine

// LayoutSize is the number of slots in every age's layout.
const LayoutSize = 20

// Topology is the fixed slot graph of one age. Rows are listed from the
// open row outwards; Edges are [supporter, dependent] pairs.
type Topology struct {
	Rows      [][]int
	RowFaceUp []bool
	Edges     [][2]int
}

// Row returns the row index holding slot, or -1.
func (t Topology) Row(slot int) int {
	for i, row := range t.Rows {
		for _, s := range row {
			if s == slot {
				return i
			}
		}
	}
	return -1
}

// OpenRowSize is the number of slots with no supporters.
func (t Topology) OpenRowSize() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// alternating marks even rows face-up and odd rows face-down. Every age uses
// it, so visibility never depends on prior layout state.
func alternating(rows int) []bool {
	out := make([]bool, rows)
	for i := range out {
		out[i] = i%2 == 0
	}
	return out
}

var topologies = map[int]Topology{
	// Age I pyramid: 6-5-4-3-2, each card rests on the two below it.
	1: {
		Rows: [][]int{
			{0, 1, 2, 3, 4, 5},
			{6, 7, 8, 9, 10},
			{11, 12, 13, 14},
			{15, 16, 17},
			{18, 19},
		},
		RowFaceUp: alternating(5),
		Edges: [][2]int{
			{0, 6}, {1, 6}, {1, 7}, {2, 7}, {2, 8}, {3, 8}, {3, 9}, {4, 9}, {4, 10}, {5, 10},
			{6, 11}, {7, 11}, {7, 12}, {8, 12}, {8, 13}, {9, 13}, {9, 14}, {10, 14},
			{11, 15}, {12, 15}, {12, 16}, {13, 16}, {13, 17}, {14, 17},
			{15, 18}, {16, 18}, {16, 19}, {17, 19},
		},
	},
	// Age II inverted pyramid: 2-3-4-5-6, edge slots rest on a single card.
	2: {
		Rows: [][]int{
			{0, 1},
			{2, 3, 4},
			{5, 6, 7, 8},
			{9, 10, 11, 12, 13},
			{14, 15, 16, 17, 18, 19},
		},
		RowFaceUp: alternating(5),
		Edges: [][2]int{
			{0, 2}, {0, 3}, {1, 3}, {1, 4},
			{2, 5}, {2, 6}, {3, 6}, {3, 7}, {4, 7}, {4, 8},
			{5, 9}, {5, 10}, {6, 10}, {6, 11}, {7, 11}, {7, 12}, {8, 12}, {8, 13},
			{9, 14}, {9, 15}, {10, 15}, {10, 16}, {11, 16}, {11, 17}, {12, 17}, {12, 18}, {13, 18}, {13, 19},
		},
	},
	// Age III lattice: 2-3-4-2-4-3-2 with a narrow waist.
	3: {
		Rows: [][]int{
			{0, 1},
			{2, 3, 4},
			{5, 6, 7, 8},
			{9, 10},
			{11, 12, 13, 14},
			{15, 16, 17},
			{18, 19},
		},
		RowFaceUp: alternating(7),
		Edges: [][2]int{
			{0, 2}, {0, 3}, {1, 3}, {1, 4},
			{2, 5}, {3, 6}, {3, 7}, {4, 8},
			{5, 9}, {6, 9}, {7, 10}, {8, 10},
			{9, 11}, {9, 12}, {10, 13}, {10, 14},
			{11, 15}, {12, 15}, {12, 16}, {13, 16}, {13, 17}, {14, 17},
			{15, 18}, {16, 18}, {16, 19}, {17, 19},
		},
	},
}

// TopologyFor returns the slot graph for an age.
func TopologyFor(age int) (Topology, bool) {
	t, ok := topologies[age]
	return t, ok
}
