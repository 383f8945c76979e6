package models

// Company is the companies table row shape.
type Company struct {
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	UserID    string `db:"user_id"`
	IsActive  bool   `db:"is_active"`
	AuditFields
}
