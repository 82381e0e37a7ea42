/*
NAME
  predicate.go

DESCRIPTION
  predicate.go provides the analysis helpers the encoder uses to choose
  a block kind: the linear-fit test and the frequency-clustering pass
  that builds a LOOKUP palette. It also holds the diff-range
  classifier, which the block selector does not consult.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codec21

import "math"

// linearFit reports whether every intermediate pixel of points lies
// within tolerance of the straight line between points[0] and
// points[len(points)-1], per channel, using double-precision
// intermediates.
func linearFit(points []Pixel, tolerance float64) bool {
	n := len(points)
	if n < 3 {
		return false
	}
	first, last := points[0], points[n-1]
	firstC := [3]float64{float64(first.X), float64(first.Y), float64(first.Z)}
	lastC := [3]float64{float64(last.X), float64(last.Y), float64(last.Z)}
	for dim := 0; dim < 3; dim++ {
		slope := (lastC[dim] - firstC[dim]) / float64(n-1)
		for i := 1; i < n-1; i++ {
			expected := firstC[dim] + slope*float64(i)
			actual := channel(points[i], dim)
			if math.Abs(actual-expected) > tolerance {
				return false
			}
		}
	}
	return true
}

// channel returns the value of dimension dim (0=X, 1=Y, 2=Z) of p as a
// float64.
func channel(p Pixel, dim int) float64 {
	switch dim {
	case 0:
		return float64(p.X)
	case 1:
		return float64(p.Y)
	default:
		return float64(p.Z)
	}
}

// cluster is a first-fit frequency cluster: a representative Pixel
// (the first pixel seen close enough to join it) and the count of
// pixels that joined it.
type cluster struct {
	rep   Pixel
	count int
}

// freqCluster performs single-pass first-fit clustering of data, with
// ties broken by insertion order, and returns the top-k clusters by
// count (descending, stable) and their aggregate coverage.
func freqCluster(data []Pixel, k int) (clusters []cluster, coverage int) {
	var all []cluster
	for _, p := range data {
		joined := false
		for i := range all {
			if squaredDistance(p, all[i].rep) < clusterTol {
				all[i].count++
				joined = true
				break
			}
		}
		if !joined {
			all = append(all, cluster{rep: p, count: 1})
		}
	}

	// Stable sort by count descending; ties keep insertion order
	// because the sort below only swaps strictly-greater runs forward.
	sorted := make([]cluster, len(all))
	copy(sorted, all)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].count > sorted[j-1].count; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	if k > len(sorted) {
		k = len(sorted)
	}
	top := sorted[:k]
	for _, c := range top {
		coverage += c.count
	}
	return top, coverage
}

// diffRange classifies a span by the largest per-channel absolute
// difference between input and reference. This helper is not part of
// the bitstream contract; the greedy selector does not consult it.
type diffClass int

const (
	diffSmall diffClass = iota
	diffMedium
	diffLarge
)

func diffRange(input, reference []Pixel) diffClass {
	class := diffSmall
	for i := range input {
		d := maxAbsChannelDiff(input[i], reference[i])
		switch {
		case d >= 16:
			return diffLarge
		case d >= 4:
			class = diffMedium
		}
	}
	return class
}

// maxAbsChannelDiff returns the largest absolute per-channel
// difference between a and b.
func maxAbsChannelDiff(a, b Pixel) int {
	dx := absInt(int(a.X) - int(b.X))
	dy := absInt(int(a.Y) - int(b.Y))
	dz := absInt(int(a.Z) - int(b.Z))
	m := dx
	if dy > m {
		m = dy
	}
	if dz > m {
		m = dz
	}
	return m
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
