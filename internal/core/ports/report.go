package ports

import "go.trai.ch/bootimage/internal/core/domain"

// ReportWriter exports test reports.
//
//go:generate go run go.uber.org/mock/mockgen -source=report.go -destination=mocks/mock_report.go -package=mocks
type ReportWriter interface {
	// Write stores the report at path.
	Write(path string, report *domain.TestReport) error
}
