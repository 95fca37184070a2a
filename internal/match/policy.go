package match

// Policy centralizes matching weights and confidence thresholds. A Policy is
// immutable once built; pass it by value into every scoring and grouping call.
type Policy struct {
	NameWeight    float64
	AddressWeight float64
	TitleWeight   float64
	CompanyWeight float64

	// MinGroupThreshold is the pair score at or above which two records are
	// considered a candidate edge during grouping.
	MinGroupThreshold float64
	// AutoAcceptThreshold is the cluster confidence above which no human
	// review is required.
	AutoAcceptThreshold float64
	// MissingFieldScore is the neutral contribution used when either side of
	// an attribute comparison is blank. The attribute keeps its full weight
	// so sparse records are neither penalized nor promoted.
	MissingFieldScore float64
}

// DefaultPolicy returns the production weights and thresholds. Weights sum
// to exactly 1.0.
func DefaultPolicy() Policy {
	return Policy{
		NameWeight:          0.50,
		AddressWeight:       0.25,
		TitleWeight:         0.15,
		CompanyWeight:       0.10,
		MinGroupThreshold:   0.75,
		AutoAcceptThreshold: 0.85,
		MissingFieldScore:   0.5,
	}
}

// Normalized returns a copy with out-of-range values replaced by defaults.
func (p Policy) Normalized() Policy {
	d := DefaultPolicy()

	if p.NameWeight <= 0 || p.NameWeight >= 1 {
		p.NameWeight = d.NameWeight
	}
	if p.AddressWeight <= 0 || p.AddressWeight >= 1 {
		p.AddressWeight = d.AddressWeight
	}
	if p.TitleWeight <= 0 || p.TitleWeight >= 1 {
		p.TitleWeight = d.TitleWeight
	}
	if p.CompanyWeight <= 0 || p.CompanyWeight >= 1 {
		p.CompanyWeight = d.CompanyWeight
	}
	if p.MinGroupThreshold <= 0 || p.MinGroupThreshold >= 1 {
		p.MinGroupThreshold = d.MinGroupThreshold
	}
	if p.AutoAcceptThreshold <= 0 || p.AutoAcceptThreshold >= 1 {
		p.AutoAcceptThreshold = d.AutoAcceptThreshold
	}
	if p.AutoAcceptThreshold < p.MinGroupThreshold {
		p.AutoAcceptThreshold = d.AutoAcceptThreshold
	}
	if p.MissingFieldScore < 0 || p.MissingFieldScore > 1 {
		p.MissingFieldScore = d.MissingFieldScore
	}
	return p
}

// WeightSum returns the sum of the four attribute weights.
func (p Policy) WeightSum() float64 {
	return p.NameWeight + p.AddressWeight + p.TitleWeight + p.CompanyWeight
}
