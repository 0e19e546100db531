package warehouse

import "salesdw/internal/storage"

// Star schema: one calendar dimension, two entity dimensions, one fact
// table carrying foreign keys into both entity dimensions.
const (
	TableDimDate  = "dim_date"
	TableCustomer = "customer"
	TableProduct  = "product"
	TableSales    = "sales"
)

// CreateOrder lists the tables with referenced tables before their
// dependents; DropOrder is the reverse (FK-safe for drops and deletes).
func CreateOrder() []string {
	return []string{TableDimDate, TableCustomer, TableProduct, TableSales}
}

func DropOrder() []string {
	return []string{TableSales, TableProduct, TableCustomer, TableDimDate}
}

// Tables returns the warehouse table specs in create order.
func Tables() []storage.TableSpec {
	return []storage.TableSpec{
		{
			Name:       TableDimDate,
			PrimaryKey: &storage.PrimaryKeySpec{Name: "date_id", Type: "INTEGER"},
			Columns: []storage.ColumnSpec{
				{Name: "full_date", Type: "TEXT", Nullable: notNull()},
				{Name: "year", Type: "INTEGER", Nullable: notNull()},
				{Name: "month", Type: "INTEGER", Nullable: notNull()},
				{Name: "month_name", Type: "TEXT", Nullable: notNull()},
				{Name: "day", Type: "INTEGER", Nullable: notNull()},
				{Name: "week", Type: "INTEGER", Nullable: notNull()},
			},
		},
		{
			Name:       TableCustomer,
			PrimaryKey: &storage.PrimaryKeySpec{Name: "segment_id", Type: "INTEGER"},
			Columns: []storage.ColumnSpec{
				{Name: "segment_name", Type: "TEXT"},
			},
		},
		{
			Name:       TableProduct,
			PrimaryKey: &storage.PrimaryKeySpec{Name: "product_id", Type: "INTEGER"},
			Columns: []storage.ColumnSpec{
				{Name: "variant_name", Type: "TEXT"},
			},
		},
		{
			Name:       TableSales,
			PrimaryKey: &storage.PrimaryKeySpec{Name: "sale_id", Type: "INTEGER"},
			Columns: []storage.ColumnSpec{
				{Name: "segment_id", Type: "INTEGER", Nullable: notNull(), References: "customer (segment_id)"},
				{Name: "product_id", Type: "INTEGER", Nullable: notNull(), References: "product (product_id)"},
				{Name: "units_sold", Type: "REAL"},
				{Name: "sale_amount", Type: "REAL", Nullable: notNull()},
				{Name: "sale_date", Type: "TEXT"},
				{Name: "profit_margin", Type: "REAL"},
			},
		},
	}
}

func notNull() *bool {
	b := false
	return &b
}
