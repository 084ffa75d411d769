package matching

const (
	genreGatePoints    = 50
	budgetGatePoints   = 25
	timelineGatePoints = 25
)

// Gates records the three all-or-nothing checks behind the basic score.
type Gates struct {
	Genre    bool
	Budget   bool
	Timeline bool
}

// EvaluateGates runs the genre, budget and timeline checks for one pairing.
func EvaluateGates(c Candidate, p ProjectRequest) Gates {
	return Gates{
		Genre:    c.Genres.Intersects(p.Categories),
		Budget:   c.Budget.Overlaps(p.Budget),
		Timeline: c.Availability.Covers(p.Timeline.PreparationStart, p.Timeline.EventEnd),
	}
}

// Score sums the points of the passed gates.
func (g Gates) Score() int {
	score := 0
	if g.Genre {
		score += genreGatePoints
	}
	if g.Budget {
		score += budgetGatePoints
	}
	if g.Timeline {
		score += timelineGatePoints
	}
	return score
}

// BasicCompatibility scores a candidate's basic fit for a project, 0-100.
func BasicCompatibility(c Candidate, p ProjectRequest) int {
	return EvaluateGates(c, p).Score()
}
