// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package algorithms

import (
	"sync"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// userNeighbors returns the k rows most similar to row u by cosine
// similarity, dropping those below minSim. Only users sharing at least one
// rated item with u can have a non-zero similarity, so the dot products are
// accumulated through the columns u touches.
func userNeighbors(m *recommend.MatrixSnapshot, u, k int, minSim float64) []neighbor {
	nu := m.RowNorm(u)
	if nu == 0 {
		return nil
	}

	dots := make(map[int]float64)
	for i, r := range m.Row(u) {
		for v, rv := range m.Col(i) {
			if v == u {
				continue
			}
			dots[v] += r * rv
		}
	}

	neighbors := make([]neighbor, 0, len(dots))
	for v, dot := range dots {
		nv := m.RowNorm(v)
		if nv == 0 {
			continue
		}
		sim := dot / (nu * nv)
		if sim >= minSim {
			neighbors = append(neighbors, neighbor{Index: v, Similarity: sim})
		}
	}

	return topNeighbors(neighbors, k)
}

// itemNeighbors returns the k columns most similar to column i.
func itemNeighbors(m *recommend.MatrixSnapshot, i, k int, minSim float64) []neighbor {
	ni := m.ColNorm(i)
	if ni == 0 {
		return nil
	}

	dots := make(map[int]float64)
	for u, r := range m.Col(i) {
		for j, rj := range m.Row(u) {
			if j == i {
				continue
			}
			dots[j] += r * rj
		}
	}

	neighbors := make([]neighbor, 0, len(dots))
	for j, dot := range dots {
		nj := m.ColNorm(j)
		if nj == 0 {
			continue
		}
		sim := dot / (ni * nj)
		if sim >= minSim {
			neighbors = append(neighbors, neighbor{Index: j, Similarity: sim})
		}
	}

	return topNeighbors(neighbors, k)
}

// userBasedScores sums neighbour rating × similarity over the items row u
// has not rated. Scores are capped at the rating scale maximum.
func userBasedScores(m *recommend.MatrixSnapshot, u int, cfg recommend.CollaborativeConfig) map[int]float64 {
	rated := m.Row(u)
	scores := make(map[int]float64)

	for _, nb := range userNeighbors(m, u, cfg.UserNeighbors, cfg.MinSimilarity) {
		for i, r := range m.Row(nb.Index) {
			if _, ok := rated[i]; ok {
				continue
			}
			scores[i] += r * nb.Similarity
		}
	}

	for i, s := range scores {
		scores[i] = capScore(s)
	}
	return scores
}

// itemBasedScores sums the requester's rating × similarity for the
// neighbours of every rated item. Rated items are split across workers.
func itemBasedScores(m *recommend.MatrixSnapshot, u int, cfg recommend.CollaborativeConfig) map[int]float64 {
	row := m.Row(u)
	rated := make([]int, 0, len(row))
	for i := range row {
		rated = append(rated, i)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		scores = make(map[int]float64)
	)
	chunkSize := (len(rated) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > len(rated) {
			end = len(rated)
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(chunk []int) {
			defer wg.Done()

			local := make(map[int]float64)
			for _, i := range chunk {
				r := row[i]
				for _, nb := range itemNeighbors(m, i, cfg.ItemNeighbors, cfg.MinSimilarity) {
					if _, ok := row[nb.Index]; ok {
						continue
					}
					local[nb.Index] += r * nb.Similarity
				}
			}

			mu.Lock()
			for j, s := range local {
				scores[j] += s
			}
			mu.Unlock()
		}(rated[start:end])
	}

	wg.Wait()

	for j, s := range scores {
		scores[j] = capScore(s)
	}
	return scores
}
