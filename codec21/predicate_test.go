/*
NAME
  predicate_test.go

DESCRIPTION
  predicate_test.go tests the linear-fit, frequency-clustering and
  diff-range analysis helpers in isolation from the block selector.

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

import "testing"

func rampPixels(start, end uint8, n int) []Pixel {
	out := make([]Pixel, n)
	for i := 0; i < n; i++ {
		v := uint8(float64(start) + float64(end-start)*float64(i)/float64(n-1))
		out[i] = Pixel{v, v, v}
	}
	return out
}

func TestLinearFitAcceptsExactRamp(t *testing.T) {
	pts := rampPixels(0x10, 0xA0, linearLen)
	if !linearFit(pts, linearTol) {
		t.Error("expected an exact ramp to pass the linear-fit test")
	}
}

func TestLinearFitRejectsOutlier(t *testing.T) {
	pts := rampPixels(0x10, 0xA0, linearLen)
	pts[10].X = 0xFF // Large outlier well past the tolerance.
	if linearFit(pts, linearTol) {
		t.Error("expected an outlier to fail the linear-fit test")
	}
}

func TestLinearFitRequiresAtLeastThreePoints(t *testing.T) {
	if linearFit([]Pixel{{0, 0, 0}, {1, 1, 1}}, 100) {
		t.Error("linearFit should require at least 3 points")
	}
}

func TestFreqClusterCoversDominantValues(t *testing.T) {
	data := make([]Pixel, 0, lookupLen)
	palette := []Pixel{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0}}
	for i := 0; i < lookupLen; i++ {
		data = append(data, palette[i%len(palette)])
	}

	clusters, coverage := freqCluster(data, lookupK)
	if coverage != lookupLen {
		t.Errorf("coverage = %d, want %d", coverage, lookupLen)
	}
	if len(clusters) != lookupK {
		t.Fatalf("got %d clusters, want %d", len(clusters), lookupK)
	}
	for i := 1; i < len(clusters); i++ {
		if clusters[i].count > clusters[i-1].count {
			t.Errorf("clusters not sorted by count descending: %+v", clusters)
		}
	}
}

func TestFreqClusterIncompleteCoverage(t *testing.T) {
	data := make([]Pixel, lookupLen)
	for i := range data {
		// Five distinct far-apart colours; top 4 clusters can't cover
		// the 5th colour's pixels.
		switch i % 5 {
		case 0:
			data[i] = Pixel{255, 0, 0}
		case 1:
			data[i] = Pixel{0, 255, 0}
		case 2:
			data[i] = Pixel{0, 0, 255}
		case 3:
			data[i] = Pixel{255, 255, 0}
		case 4:
			data[i] = Pixel{0, 255, 255}
		}
	}
	_, coverage := freqCluster(data, lookupK)
	if coverage == lookupLen {
		t.Error("expected incomplete coverage with 5 distinct far-apart colours and a 4-entry palette")
	}
}

func TestDiffRangeClassification(t *testing.T) {
	ref := []Pixel{{10, 10, 10}, {10, 10, 10}, {10, 10, 10}}

	small := []Pixel{{11, 10, 10}, {10, 11, 10}, {10, 10, 11}}
	if got := diffRange(small, ref); got != diffSmall {
		t.Errorf("small diff classified as %v", got)
	}

	medium := []Pixel{{14, 10, 10}, {10, 10, 10}, {10, 10, 10}}
	if got := diffRange(medium, ref); got != diffMedium {
		t.Errorf("medium diff classified as %v", got)
	}

	large := []Pixel{{30, 10, 10}, {10, 10, 10}, {10, 10, 10}}
	if got := diffRange(large, ref); got != diffLarge {
		t.Errorf("large diff classified as %v", got)
	}
}
