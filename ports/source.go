package ports

import "gocalib/domain/study"

// SheetSource provides read access to one partition of the raw response
// data. Excel sources address partitions by sheet name; CSV sources expose a
// single unnamed sheet and ignore the name.
type SheetSource interface {
	ReadSheet(sheetName string) (*study.RawTable, error)
	SheetNames() ([]string, error)
}
