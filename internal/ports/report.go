package ports

import "package-pruner/internal/types"

type ReportPort interface {
	WriteRunResult(result types.RunResult) error
	WritePlan(plan types.PrunePlan) error
}
