// Package gridworld builds deterministic goal-conditioned value matrices
// for small room-structured grids. It exists to generate reproducible
// fixtures: the value of state s for goal g is gamma^d(s,g) with d the
// shortest walkable distance, which is the exact value function of an
// optimal policy under discount gamma.
package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type cell struct{ x, y int }

// World is a rectangular grid with blocked edges between adjacent cells.
// Every cell is a state; walls only constrain movement.
type World struct {
	width, height int
	blocked       map[[2]cell]bool
}

// New creates an open width x height grid.
func New(width, height int) *World {
	return &World{
		width:   width,
		height:  height,
		blocked: make(map[[2]cell]bool),
	}
}

// FourRooms returns the 4x4 grid divided into four 2x2 rooms, one doorway
// per dividing wall. 16 states total.
func FourRooms() *World {
	w := New(4, 4)
	// Vertical divider between columns 1 and 2: doors at rows 1 and 2.
	w.Block(1, 0, 2, 0)
	w.Block(1, 3, 2, 3)
	// Horizontal divider between rows 1 and 2: doors at columns 1 and 2.
	w.Block(0, 1, 0, 2)
	w.Block(3, 1, 3, 2)
	return w
}

// States returns the number of grid cells.
func (w *World) States() int { return w.width * w.height }

// Block removes the edge between two adjacent cells.
func (w *World) Block(ax, ay, bx, by int) {
	a, b := cell{ax, ay}, cell{bx, by}
	w.blocked[[2]cell{a, b}] = true
	w.blocked[[2]cell{b, a}] = true
}

func (w *World) passable(a, b cell) bool {
	if b.x < 0 || b.x >= w.width || b.y < 0 || b.y >= w.height {
		return false
	}
	return !w.blocked[[2]cell{a, b}]
}

// Values returns the states x states value matrix V(s, g) = gamma^d(s, g),
// with d the shortest path length respecting walls. Unreachable pairs get
// value zero. gamma must lie in (0, 1).
func (w *World) Values(gamma float64) (*mat.Dense, error) {
	if gamma <= 0 || gamma >= 1 {
		return nil, fmt.Errorf("discount gamma must be in (0, 1), got %v", gamma)
	}
	n := w.States()
	v := mat.NewDense(n, n, nil)
	for g := range n {
		dist := w.distances(cell{g % w.width, g / w.width})
		for s := range n {
			if dist[s] < 0 {
				continue
			}
			v.Set(s, g, pow(gamma, dist[s]))
		}
	}
	return v, nil
}

// distances runs a breadth-first search from the goal cell. Unreachable
// cells get -1.
func (w *World) distances(goal cell) []int {
	dist := make([]int, w.States())
	for i := range dist {
		dist[i] = -1
	}
	idx := func(c cell) int { return c.y*w.width + c.x }
	dist[idx(goal)] = 0
	queue := []cell{goal}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range []cell{
			{cur.x + 1, cur.y}, {cur.x - 1, cur.y},
			{cur.x, cur.y + 1}, {cur.x, cur.y - 1},
		} {
			if !w.passable(cur, next) || dist[idx(next)] >= 0 {
				continue
			}
			dist[idx(next)] = dist[idx(cur)] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

func pow(gamma float64, n int) float64 {
	v := 1.0
	for range n {
		v *= gamma
	}
	return v
}
