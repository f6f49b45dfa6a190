package recommend

import (
	"errors"
	"math/rand"
)

const (
	kmeansSeed          = 42
	kmeansMaxIterations = 300
)

var errTooFewPoints = errors.New("fewer points than clusters")

// kmeans partitions points into k clusters and returns each point's cluster
// index. Centroids are seeded with k-means++ from a fixed seed so identical
// input always yields identical assignments. Lloyd iterations run until no
// assignment changes or the iteration cap is reached.
func kmeans(points [][]float64, k int, seed int64) ([]int, error) {
	if k <= 0 || len(points) < k {
		return nil, errTooFewPoints
	}
	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(points, k, rng)

	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		recomputeCentroids(points, assign, centroids)
	}
	return assign, nil
}

// seedCentroids picks initial centroids with k-means++: the first uniformly,
// each next with probability proportional to its squared distance from the
// nearest chosen centroid.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := points[rng.Intn(len(points))]
	centroids = append(centroids, append([]float64(nil), first...))

	dist := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			dist[i] = squaredDistance(p, centroids[nearest(p, centroids)])
			total += dist[i]
		}

		idx := 0
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dist {
				target -= d
				if target <= 0 {
					idx = i
					break
				}
				idx = i
			}
		} else {
			// Every point coincides with a centroid already.
			idx = rng.Intn(len(points))
		}
		centroids = append(centroids, append([]float64(nil), points[idx]...))
	}
	return centroids
}

func nearest(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := squaredDistance(p, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := squaredDistance(p, centroids[c]); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// recomputeCentroids moves every centroid to the mean of its members.
// Centroids that lost all members stay where they are.
func recomputeCentroids(points [][]float64, assign []int, centroids [][]float64) {
	dim := len(points[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := assign[i]
		counts[c]++
		for j, x := range p {
			sums[c][j] += x
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}
