// Package domain defines the encrypted record model and the registry of
// entity classes whose columns hold PHI ciphertext.
package domain

// EncryptedField describes one encrypted column of an entity class.
type EncryptedField struct {
	// Column is the table column holding the ciphertext envelope.
	Column string
	// SearchHashColumn is the companion column holding the deterministic
	// search hash, empty when the field is not searchable.
	SearchHashColumn string
}

// Searchable reports whether the field carries a search hash column.
func (f EncryptedField) Searchable() bool {
	return f.SearchHashColumn != ""
}

// EntityClass describes one table whose rows carry encrypted PHI columns.
type EntityClass struct {
	// Name identifies the class in rotation tallies and audit records.
	Name string
	// Table is the database table name.
	Table string
	// IDColumn is the primary key column.
	IDColumn string
	// Fields lists the encrypted columns, in a fixed order.
	Fields []EncryptedField
}

// FieldColumns returns the ciphertext column names in registry order.
func (c EntityClass) FieldColumns() []string {
	columns := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		columns[i] = f.Column
	}
	return columns
}

// Field looks up an encrypted field by its column name.
func (c EntityClass) Field(column string) (EncryptedField, bool) {
	for _, f := range c.Fields {
		if f.Column == column {
			return f, true
		}
	}
	return EncryptedField{}, false
}

// EncryptedRecord is one row's encrypted field values keyed by column name.
// A column absent from Values is NULL in the database and stays untouched.
type EncryptedRecord struct {
	ID     int64
	Values map[string]string
}
