package matching

// StyleAffinity is the share of style tags the candidate and curator have in
// common, normalized by the larger set. Either set empty scores 0.
func StyleAffinity(workStyles, preferred TagSet) float64 {
	if workStyles.Len() == 0 || preferred.Len() == 0 {
		return 0
	}
	denom := workStyles.Len()
	if preferred.Len() > denom {
		denom = preferred.Len()
	}
	return clamp(float64(workStyles.IntersectionSize(preferred)) / float64(denom) * 100)
}
