package learnhub

import "github.com/MrEthical07/learnhub/internal/security"

// SecurityReport summarizes token lifetimes, throttles and audit settings.
type SecurityReport = security.Report

// SecurityReport describes the posture the engine was built with. It is
// safe to log.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}
	cfg := e.config
	return security.BuildReport(security.ReportInput{
		ProductionMode:        cfg.Security.ProductionMode,
		SigningAlgorithm:      string(cfg.JWT.SigningMethod),
		AccessTTL:             cfg.JWT.Access.TTL,
		RefreshTTL:            cfg.JWT.Refresh.TTL,
		ActivationTTL:         cfg.JWT.Activation.TTL,
		SnapshotTTL:           cfg.Session.SnapshotTTL,
		BcryptCost:            cfg.Password.Cost,
		MaxLoginAttempts:      cfg.Security.MaxLoginAttempts,
		LoginCooldownDuration: cfg.Security.LoginCooldownDuration,
		ActivationThrottle:    cfg.Security.EnableActivationThrottle,
		MaxActivationAttempts: cfg.Security.MaxActivationAttempts,
		AuditEnabled:          cfg.Audit.Enabled,
		LintCodes:             cfg.Lint().Codes(),
	})
}
