package models

// RouteCheckResult is the per-route outcome of one check cycle. One route's
// failure never aborts the cycle; every reportable outcome lands here.
type RouteCheckResult struct {
	RouteID string `json:"routeId"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckSummary is the aggregate a check cycle returns to its caller. It is
// the dispatcher's only externally observable value.
type CheckSummary struct {
	Message string             `json:"message"`
	Checked int                `json:"checked"`
	Results []RouteCheckResult `json:"results"`
}
