package models

// DefaultCategory is assigned to products created without a category.
const DefaultCategory = "OTROS"

// Categories is the closed, ordered set of labels a product may carry.
// Both the store-level constraint and the request validator read this table.
var Categories = []string{
	"PROTECCIÓN MANUAL",
	"PROTECCIÓN AUDITIVA",
	"PROTECCIÓN VISUAL",
	"PROTECCIÓN RESPIRATORIA",
	"PROTECCIÓN FACIAL Y CABEZA",
	"PROTECCIÓN CORPORAL",
	"SEÑALIZACIÓN",
	"PROTECCIÓN ALTURAS",
	"PROTECCIÓN PIES",
	"ATENCIÓN PRIMEROS AUXILIOS",
	"PROTECCIÓN ESPACIOS CONFINADOS",
	"MATERIAL ATENCIÓN DERRAMES",
	"HERRAMIENTAS Y EQUIPOS",
	"OTROS",
	"TECNOLOGÍA",
}

// IsValidCategory reports whether label is one of Categories.
// Labels are compared verbatim: no case folding or trimming.
func IsValidCategory(label string) bool {
	for _, c := range Categories {
		if c == label {
			return true
		}
	}
	return false
}
