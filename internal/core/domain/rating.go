package domain

// AverageRating normalizes every rated source to a 5-point scale and returns
// the review-weighted mean. Sources without a review count weigh 1.
// It returns nil and 0 when no source carries a rating.
func AverageRating(sources []RatingSource) (*float64, int) {
	var weighted float64
	total := 0

	for _, s := range sources {
		if s.Rating == nil {
			continue
		}
		scale := 5.0
		if s.MaxRating != nil && *s.MaxRating > 0 {
			scale = *s.MaxRating
		}
		normalized := *s.Rating / scale * 5

		weight := 1
		if s.ReviewCount != nil && *s.ReviewCount > 0 {
			weight = *s.ReviewCount
		}
		weighted += normalized * float64(weight)
		total += weight
	}

	if total == 0 {
		return nil, 0
	}
	avg := weighted / float64(total)
	return &avg, total
}
