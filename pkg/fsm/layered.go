package fsm

import (
	"cmp"
	"slices"

	"github.com/ha1tch/fsm-logic/pkg/geom"
)

// crossingPasses is the number of barycenter sweeps run by Layered.
const crossingPasses = 4

// Layered places the states in horizontal layers by breadth-first distance
// from the initial state, top to bottom, and orders each layer with the
// barycenter heuristic to reduce crossings. States not reachable from the
// initial state get one layer each below the rest. Transitions are reset to
// their default positions.
func (f *FSM) Layered() {
	if len(f.states) == 0 {
		return
	}

	succ := make(map[*State][]*State)
	pred := make(map[*State][]*State)
	seen := make(map[[2]*State]bool)
	for _, t := range f.transitions {
		edge := [2]*State{t.from, t.to}
		if t.IsLoop() || seen[edge] {
			continue
		}
		seen[edge] = true
		succ[t.from] = append(succ[t.from], t.to)
		pred[t.to] = append(pred[t.to], t.from)
	}

	layers := f.assignLayers(succ)
	for range crossingPasses {
		reduceCrossings(layers, pred, succ)
	}

	rad := 0.0
	for _, s := range f.states {
		rad = max(rad, s.Radius())
	}
	spacing := 4 * rad

	for i, layer := range layers {
		width := 0.0
		for _, s := range layer {
			width += 2*s.Radius() + rad
		}
		x := -width / 2
		for _, s := range layer {
			r := s.Radius()
			s.pos = geom.Vec(x+r+rad/2, float64(i)*spacing)
			x += 2*r + rad
		}
	}

	for _, t := range f.transitions {
		t.InitPos()
	}
}

func (f *FSM) assignLayers(succ map[*State][]*State) [][]*State {
	initial := f.Initial()
	depth := map[*State]int{initial: 0}
	deepest := 0

	queue := []*State{initial}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range succ[cur] {
			if _, ok := depth[next]; !ok {
				depth[next] = depth[cur] + 1
				deepest = max(deepest, depth[next])
				queue = append(queue, next)
			}
		}
	}

	layers := make([][]*State, deepest+1)
	for _, s := range f.states {
		d, ok := depth[s]
		if !ok {
			layers = append(layers, []*State{s})
			continue
		}
		layers[d] = append(layers[d], s)
	}
	return layers
}

// reduceCrossings sorts each layer by the mean index of its neighbours in
// the previous layer, then sweeps back up using the next layer.
func reduceCrossings(layers [][]*State, pred, succ map[*State][]*State) {
	index := make(map[*State]float64)
	for _, layer := range layers {
		for i, s := range layer {
			index[s] = float64(i)
		}
	}

	sortLayer := func(layer []*State, neighbours map[*State][]*State) {
		bary := make(map[*State]float64, len(layer))
		for _, s := range layer {
			sum, n := 0.0, 0
			for _, o := range neighbours[s] {
				if i, ok := index[o]; ok {
					sum += i
					n++
				}
			}
			if n > 0 {
				bary[s] = sum / float64(n)
			} else {
				bary[s] = index[s]
			}
		}
		slices.SortStableFunc(layer, func(a, b *State) int {
			return cmp.Compare(bary[a], bary[b])
		})
		for i, s := range layer {
			index[s] = float64(i)
		}
	}

	for l := 1; l < len(layers); l++ {
		sortLayer(layers[l], pred)
	}
	for l := len(layers) - 2; l >= 0; l-- {
		sortLayer(layers[l], succ)
	}
}
