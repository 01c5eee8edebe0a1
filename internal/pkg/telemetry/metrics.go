package telemetry

// Span names.
const (
	SpanFindNearby     = "courses.find_nearby"
	SpanCoursePhotos   = "photos.course_photos"
	SpanWeatherRefresh = "weather.refresh_all"
)

// Span attribute keys.
const (
	AttrLatitude     = "geo.latitude"
	AttrLongitude    = "geo.longitude"
	AttrRadiusKm     = "geo.radius_km"
	AttrLimit        = "query.limit"
	AttrCandidates   = "courses.candidates"
	AttrResults      = "courses.results"
	AttrCourseSlug   = "course.slug"
	AttrQuotaAllowed = "photos.quota_allowed"
)
