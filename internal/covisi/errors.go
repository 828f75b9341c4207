package covisi

import "fmt"

func errUnknownColumn(column string) error {
	return fmt.Errorf("unknown CoVISI column %q (want %s, %s, %s or %s)",
		column, ColumnRec, ColumnDerec, ColumnAll, ColumnSteady)
}

func errRowOutOfRange(i, n int) error {
	return fmt.Errorf("motor unit index %d out of range [0, %d)", i, n)
}
