package submission

// Progress is the cosmetic indicator shown while a submission is processed.
// It only ever moves forward, in steps that shrink as it approaches the
// stall point, and it never gates the real submission, which proceeds
// independently.
type Progress struct {
	value float64
}

const progressStall = 95

// Advance moves the indicator one tick and returns the new value in
// [0, 95]. Past the stall point it holds until Finish.
func (p *Progress) Advance() float64 {
	switch {
	case p.value >= progressStall:
		return p.value
	case p.value < 30:
		p.value++
	case p.value < 60:
		p.value += 0.5
	default:
		p.value += 0.25
	}

	if p.value > progressStall {
		p.value = progressStall
	}

	return p.value
}

// Finish jumps the indicator to completion once the submission settled.
func (p *Progress) Finish() float64 {
	p.value = 100
	return p.value
}

func (p *Progress) Value() float64 {
	return p.value
}

// Step names the stage implied by the current value.
func (p *Progress) Step(pdf bool) string {
	switch {
	case p.value < 15:
		if pdf {
			return "Preparing document..."
		}

		return "Preparing image..."
	case p.value < 35:
		return "Extracting data..."
	case p.value < 75:
		return "Analyzing content..."
	}

	return "Finalizing..."
}
