package model

// TableStatus is the occupancy state of a physical table.
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
)

// Table is a physical table on a floor.  A table is occupied exactly when a
// non-terminal order claims it.
type Table struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Floor        string      `json:"floor"`
	Status       TableStatus `json:"status"`
	CustomerName string      `json:"customer_name,omitempty"`
}

// Floor is a named partition of tables.  At least one floor always exists.
type Floor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
