package ports

import "gocalib/domain/study"

// TableExporter renders the scored participant table for persistence.
// Export returns the flat document bytes; WriteFile persists them to path,
// creating parent directories as needed.
type TableExporter interface {
	Export(table *study.Table) ([]byte, error)
	WriteFile(path string, table *study.Table) error
}
