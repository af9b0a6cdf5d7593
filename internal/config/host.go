package config

import (
	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/sysmon"
)

// DefaultBudget returns the host's logical CPU count, the budget used when
// none is given.
func DefaultBudget() uint64 {
	return uint64(sysmon.LogicalCores())
}

// ApplyHostDefaults resolves a zero budget to hostBudget and clamps the
// budget so it never exceeds N. A budget at most N always yields a valid
// tree; FitBudget is still applied to host-derived budgets so that a change
// to the clamping rule cannot turn the default into a domain violation.
func ApplyHostDefaults(cfg AppConfig, hostBudget uint64) AppConfig {
	if cfg.Budget == 0 {
		cfg.Budget = hostBudget
		cfg.BudgetFromHost = true
	}
	cfg.Budget = min(cfg.Budget, cfg.N)
	if cfg.BudgetFromHost {
		cfg.Budget = fibonacci.FitBudget(cfg.N, cfg.Budget)
	}
	return cfg
}
