package texture

import "container/heap"

// MinCutPath 在误差矩阵 errs（行 × 列）上自顶向下寻找累计误差最小的接缝，
// 每下移一行列号最多变化 1。返回每一行所选的列号。
// 代价相同时先入队的路径优先，结果确定。
func MinCutPath(errs [][]float64) []int {
	h := len(errs)
	if h == 0 || len(errs[0]) == 0 {
		return nil
	}
	w := len(errs[0])

	parent := make([][]int, h)
	seen := make([][]bool, h)
	for i := range parent {
		parent[i] = make([]int, w)
		seen[i] = make([]bool, w)
	}

	pq := &seamQueue{}
	seq := 0
	for j := 0; j < w; j++ {
		heap.Push(pq, seamNode{cost: errs[0][j], seq: seq, depth: 0, index: j})
		seq++
		seen[0][j] = true
		parent[0][j] = -1
	}

	for pq.Len() > 0 {
		n := heap.Pop(pq).(seamNode)
		if n.depth == h-1 {
			path := make([]int, h)
			idx := n.index
			for d := h - 1; d >= 0; d-- {
				path[d] = idx
				idx = parent[d][idx]
			}
			return path
		}
		next := n.depth + 1
		for delta := -1; delta <= 1; delta++ {
			j := n.index + delta
			if j < 0 || j >= w || seen[next][j] {
				continue
			}
			seen[next][j] = true
			parent[next][j] = n.index
			heap.Push(pq, seamNode{cost: n.cost + errs[next][j], seq: seq, depth: next, index: j})
			seq++
		}
	}
	return nil
}

// PathCost 返回接缝经过的误差之和。
func PathCost(errs [][]float64, path []int) float64 {
	var sum float64
	for i, j := range path {
		sum += errs[i][j]
	}
	return sum
}

type seamNode struct {
	cost  float64
	seq   int
	depth int
	index int
}

type seamQueue []seamNode

func (q seamQueue) Len() int { return len(q) }
func (q seamQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}
func (q seamQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *seamQueue) Push(x any)   { *q = append(*q, x.(seamNode)) }
func (q *seamQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}
