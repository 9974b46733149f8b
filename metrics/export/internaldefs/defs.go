package internaldefs

import (
	"github.com/MrEthical07/learnhub"
)

// CounterDef names one engine counter for exporters.
type CounterDef struct {
	ID   learnhub.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for exporters.
type HistogramDef struct {
	ID   learnhub.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: learnhub.MetricLoginSuccess, Name: "learnhub_login_success_total", Help: "Successful logins."},
	{ID: learnhub.MetricLoginFailure, Name: "learnhub_login_failure_total", Help: "Failed logins."},
	{ID: learnhub.MetricLoginRateLimited, Name: "learnhub_login_rate_limited_total", Help: "Logins rejected by the failed-attempt budget."},
	{ID: learnhub.MetricRefreshSuccess, Name: "learnhub_refresh_success_total", Help: "Successful token refreshes."},
	{ID: learnhub.MetricRefreshFailure, Name: "learnhub_refresh_failure_total", Help: "Failed token refreshes."},
	{ID: learnhub.MetricSessionRevoked, Name: "learnhub_session_revoked_total", Help: "Refreshes rejected because the cached snapshot was gone."},
	{ID: learnhub.MetricAuthenticateSuccess, Name: "learnhub_authenticate_success_total", Help: "Requests admitted by the gate."},
	{ID: learnhub.MetricAuthenticateFailure, Name: "learnhub_authenticate_failure_total", Help: "Requests rejected by the gate."},
	{ID: learnhub.MetricForbidden, Name: "learnhub_forbidden_total", Help: "Requests rejected by role checks."},
	{ID: learnhub.MetricLogout, Name: "learnhub_logout_total", Help: "Logouts."},
	{ID: learnhub.MetricActivationIssued, Name: "learnhub_activation_issued_total", Help: "Issued activation tickets."},
	{ID: learnhub.MetricActivationSuccess, Name: "learnhub_activation_success_total", Help: "Accounts activated."},
	{ID: learnhub.MetricActivationFailure, Name: "learnhub_activation_failure_total", Help: "Rejected activation attempts."},
	{ID: learnhub.MetricActivationRateLimited, Name: "learnhub_activation_rate_limited_total", Help: "Activation attempts rejected by the per-ticket budget."},
	{ID: learnhub.MetricAccountCreated, Name: "learnhub_account_created_total", Help: "Accounts created by activation or social auth."},
	{ID: learnhub.MetricSocialLogin, Name: "learnhub_social_login_total", Help: "Social sign-ins."},
	{ID: learnhub.MetricPasswordChangeSuccess, Name: "learnhub_password_change_success_total", Help: "Successful password changes."},
	{ID: learnhub.MetricPasswordChangeFailure, Name: "learnhub_password_change_failure_total", Help: "Rejected password changes."},
	{ID: learnhub.MetricCacheWriteFailure, Name: "learnhub_cache_write_failure_total", Help: "Snapshot writes that failed after a durable update."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: learnhub.MetricAuthenticateLatency, Name: "learnhub_authenticate_latency_seconds", Help: "Gate authenticate latency."},
}

// HistogramBounds are the upper bounds of the buckets in seconds. The last
// bucket is +Inf and is not listed.
func HistogramBounds() []float64 {
	out := make([]float64, 0, len(learnhub.HistogramBounds))
	for _, b := range learnhub.HistogramBounds {
		out = append(out, b.Seconds())
	}
	return out
}

// HistogramBoundSuffix names each bucket for exporters that flatten buckets
// into separate instruments.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
