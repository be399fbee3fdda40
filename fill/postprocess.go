package fill

import (
	"github.com/zmmyslony/vectorslicer/geom"
	"github.com/zmmyslony/vectorslicer/tracepath"
)

// PostProcess implements spec.md §4.G "Post-processing": it optionally
// undoes isolated single-point disk fills, drops paths shorter than
// MinLineLengthFactor*PrintRadius (rewinding their coverage
// contribution), and computes each surviving path's overlap profile.
func (fp *FilledPattern) PostProcess() {
	if fp.Flags.DropIsolatedPoints {
		for _, sp := range fp.singlePoints {
			fp.Coverage.RemoveCells(diskAt(sp.Position.ToFCoord(), fp.disk), sp.Director)
		}
		fp.singlePoints = nil
	}

	if fp.Flags.MinLineLengthFactor > 0 {
		threshold := fp.Flags.MinLineLengthFactor * fp.Config.PrintRadius
		kept := fp.Paths[:0]
		for _, p := range fp.Paths {
			if p.Length() < threshold {
				fp.rewindPath(p)
				continue
			}
			kept = append(kept, p)
		}
		fp.Paths = kept
	}

	fp.computeOverlapProfiles()
}

// rewindPath undoes every swept-quad and end-cap coverage contribution a
// committed path made, the inverse of growPath's commitStep/capEnds.
func (fp *FilledPattern) rewindPath(p *tracepath.Path) {
	for i := 1; i < p.Len(); i++ {
		tangent := p.Centre[i].Sub(p.Centre[i-1]).Normalize()
		cells := geom.SweepRectangle(p.EdgePos[i-1], p.EdgePos[i], p.EdgeNeg[i], p.EdgeNeg[i-1], true)
		fp.Coverage.RemoveCells(cells, tangent)
	}

	firstDir := p.Centre[1].Sub(p.Centre[0])
	fp.Coverage.RemoveCells(geom.HalfDisk(p.First(), firstDir.Neg(), fp.Config.PrintRadius), firstDir.Normalize())

	n := p.Len()
	lastDir := p.Centre[n-1].Sub(p.Centre[n-2])
	fp.Coverage.RemoveCells(geom.HalfDisk(p.Last(), lastDir, fp.Config.PrintRadius), lastDir.Normalize())
}

// computeOverlapProfiles fills in each surviving path's Overlap array:
// per-segment overlap density is the mean of max(0, fills-1) over that
// segment's swept rectangle; each node's overlap is the mean of its
// adjacent segment densities, per spec.md §4.G.
func (fp *FilledPattern) computeOverlapProfiles() {
	for _, p := range fp.Paths {
		n := p.Len()
		if n < 2 {
			continue
		}
		segment := make([]float64, n-1)
		for i := 1; i < n; i++ {
			cells := geom.SweepRectangle(p.EdgePos[i-1], p.EdgePos[i], p.EdgeNeg[i], p.EdgeNeg[i-1], true)
			if len(cells) == 0 {
				continue
			}
			var sum float64
			for _, c := range cells {
				v := fp.Coverage.FillsAt(c) - 1
				if v < 0 {
					v = 0
				}
				sum += float64(v)
			}
			segment[i-1] = sum / float64(len(cells))
		}

		for i := 0; i < n; i++ {
			var sum float64
			var count int
			if i > 0 {
				sum += segment[i-1]
				count++
			}
			if i < n-1 {
				sum += segment[i]
				count++
			}
			if count > 0 {
				p.Overlap[i] = sum / float64(count)
			}
		}
	}
}
