package domain

// registry is the static list of entity classes carrying PHI ciphertext.
// Adding an encrypted column means adding it here; nothing is discovered
// at runtime.
var registry = []EntityClass{
	{
		Name:     "therapist_phi",
		Table:    "therapist_phi",
		IDColumn: "id",
		Fields: []EncryptedField{
			{Column: "license_number"},
			{Column: "home_address"},
			{Column: "personal_phone"},
			{Column: "date_of_birth"},
			{Column: "ssn", SearchHashColumn: "ssn_search_hash"},
		},
	},
	{
		Name:     "patients",
		Table:    "patients",
		IDColumn: "id",
		Fields: []EncryptedField{
			{Column: "first_name"},
			{Column: "last_name"},
			{Column: "date_of_birth"},
			{Column: "ssn", SearchHashColumn: "ssn_search_hash"},
			{Column: "email", SearchHashColumn: "email_search_hash"},
			{Column: "phone", SearchHashColumn: "phone_search_hash"},
			{Column: "address"},
		},
	},
	{
		Name:     "clients",
		Table:    "clients",
		IDColumn: "id",
		Fields: []EncryptedField{
			{Column: "first_name"},
			{Column: "last_name"},
			{Column: "email", SearchHashColumn: "email_search_hash"},
			{Column: "phone", SearchHashColumn: "phone_search_hash"},
			{Column: "address"},
			{Column: "emergency_contact"},
		},
	},
	{
		Name:     "clinical_sessions",
		Table:    "clinical_sessions",
		IDColumn: "id",
		Fields: []EncryptedField{
			{Column: "session_notes"},
			{Column: "diagnosis_codes"},
			{Column: "treatment_plan"},
		},
	},
}

// Registry returns the entity classes in rotation order.
func Registry() []EntityClass {
	classes := make([]EntityClass, len(registry))
	copy(classes, registry)
	return classes
}

// ClassByName looks up an entity class by its name.
func ClassByName(name string) (EntityClass, bool) {
	for _, c := range registry {
		if c.Name == name {
			return c, true
		}
	}
	return EntityClass{}, false
}
