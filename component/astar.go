package component

import (
	"container/heap"
	"math"
)

// PathNode represents a grid cell in an A* path.
type PathNode struct {
	X int
	Y int
}

// AStar finds a path from start to goal on an 8-way grid. Diagonal steps are
// only taken when both adjacent orthogonal cells are open, so paths never cut
// obstacle corners. isBlocked should return true for cells that cannot be
// traversed. maxNodes limits the number of expanded nodes.
func AStar(startX, startY, goalX, goalY, width, height int, isBlocked func(x, y int) bool, maxNodes int) []PathNode {
	if width <= 0 || height <= 0 {
		return nil
	}
	inside := func(x, y int) bool { return x >= 0 && y >= 0 && x < width && y < height }
	if !inside(startX, startY) || !inside(goalX, goalY) {
		return nil
	}
	if startX == goalX && startY == goalY {
		return []PathNode{{X: startX, Y: startY}}
	}
	blocked := func(x, y int) bool { return isBlocked != nil && isBlocked(x, y) }
	if blocked(goalX, goalY) {
		return nil
	}

	startIdx := startY*width + startX
	goalIdx := goalY*width + goalX

	cameFrom := make(map[int]int, 128)
	gScore := map[int]float64{startIdx: 0}
	closed := make(map[int]bool, 128)

	open := &nodeHeap{}
	heap.Push(open, heapNode{idx: startIdx, f: octile(startX, startY, goalX, goalY)})

	expanded := 0
	for open.Len() > 0 && expanded < maxNodes {
		current := heap.Pop(open).(heapNode)
		if closed[current.idx] {
			continue
		}
		closed[current.idx] = true
		expanded++

		if current.idx == goalIdx {
			return reconstructPath(cameFrom, current.idx, startIdx, width)
		}

		cx, cy := current.idx%width, current.idx/width
		for _, d := range neighborSteps {
			nx, ny := cx+d.dx, cy+d.dy
			if !inside(nx, ny) || blocked(nx, ny) {
				continue
			}
			if d.dx != 0 && d.dy != 0 && (blocked(cx+d.dx, cy) || blocked(cx, cy+d.dy)) {
				continue
			}
			nIdx := ny*width + nx
			if closed[nIdx] {
				continue
			}
			tentative := gScore[current.idx] + d.cost
			if prev, seen := gScore[nIdx]; seen && tentative >= prev {
				continue
			}
			cameFrom[nIdx] = current.idx
			gScore[nIdx] = tentative
			heap.Push(open, heapNode{idx: nIdx, f: tentative + octile(nx, ny, goalX, goalY)})
		}
	}

	return nil
}

type step struct {
	dx, dy int
	cost   float64
}

var neighborSteps = []step{
	{1, 0, 1}, {-1, 0, 1}, {0, 1, 1}, {0, -1, 1},
	{1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2}, {-1, -1, math.Sqrt2},
}

type heapNode struct {
	idx int
	f   float64
}

type nodeHeap []heapNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(heapNode)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}

func reconstructPath(cameFrom map[int]int, currentIdx, startIdx, width int) []PathNode {
	path := make([]PathNode, 0, 32)
	for {
		path = append(path, PathNode{X: currentIdx % width, Y: currentIdx / width})
		if currentIdx == startIdx {
			break
		}
		prev, ok := cameFrom[currentIdx]
		if !ok {
			return nil
		}
		currentIdx = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func octile(x1, y1, x2, y2 int) float64 {
	dx := math.Abs(float64(x1 - x2))
	dy := math.Abs(float64(y1 - y2))
	return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
}
