package core

import "matcheck/pkg/domain"

type (
	Category           = domain.Category
	Item               = domain.Item
	GoalSpec           = domain.GoalSpec
	OperatorGoal       = domain.OperatorGoal
	Key                = domain.Key
	Severity           = domain.Severity
	Violation          = domain.Violation
	Result             = domain.Result
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
	RuleViolationError = domain.RuleViolationError
	ChecklistStore     = domain.ChecklistStore
	RecipeCatalog      = domain.RecipeCatalog
	StorageDriver      = domain.StorageDriver
)

const (
	CategoryElite   = domain.CategoryElite
	CategoryMastery = domain.CategoryMastery
	CategorySkill   = domain.CategorySkill
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
)

const (
	StorageMemory   = domain.StorageMemory
	StorageSQLite   = domain.StorageSQLite
	StoragePostgres = domain.StoragePostgres
	StorageObject   = domain.StorageObject
)
