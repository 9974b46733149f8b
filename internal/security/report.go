package security

import "time"

// Report is a read-only summary of the security posture an engine runs
// with. It holds no secrets.
type Report struct {
	ProductionMode           bool          `json:"productionMode"`
	SigningAlgorithm         string        `json:"signingAlgorithm"`
	AccessTTL                time.Duration `json:"accessTTL"`
	RefreshTTL               time.Duration `json:"refreshTTL"`
	ActivationTTL            time.Duration `json:"activationTTL"`
	SnapshotTTL              time.Duration `json:"snapshotTTL"`
	BcryptCost               int           `json:"bcryptCost"`
	RefreshRotationEnabled   bool          `json:"refreshRotationEnabled"`
	LoginThrottleActive      bool          `json:"loginThrottleActive"`
	ActivationThrottleActive bool          `json:"activationThrottleActive"`
	AuditEnabled             bool          `json:"auditEnabled"`
	LintWarnings             []string      `json:"lintWarnings,omitempty"`
}

type ReportInput struct {
	ProductionMode        bool
	SigningAlgorithm      string
	AccessTTL             time.Duration
	RefreshTTL            time.Duration
	ActivationTTL         time.Duration
	SnapshotTTL           time.Duration
	BcryptCost            int
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
	ActivationThrottle    bool
	MaxActivationAttempts int
	AuditEnabled          bool
	LintCodes             []string
}

func BuildReport(input ReportInput) Report {
	loginThrottle := input.MaxLoginAttempts > 0 &&
		input.LoginCooldownDuration > 0

	return Report{
		ProductionMode:   input.ProductionMode,
		SigningAlgorithm: input.SigningAlgorithm,
		AccessTTL:        input.AccessTTL,
		RefreshTTL:       input.RefreshTTL,
		ActivationTTL:    input.ActivationTTL,
		SnapshotTTL:      input.SnapshotTTL,
		BcryptCost:       input.BcryptCost,
		// refresh tokens are reusable until expiry or logout
		RefreshRotationEnabled:   false,
		LoginThrottleActive:      loginThrottle,
		ActivationThrottleActive: input.ActivationThrottle && input.MaxActivationAttempts > 0,
		AuditEnabled:             input.AuditEnabled,
		LintWarnings:             append([]string(nil), input.LintCodes...),
	}
}
