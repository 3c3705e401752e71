package domain

// Formula is a master product definition a production run can target
type Formula struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Color     string `json:"color"`
	ColorCode string `json:"colorCode"`
	// Factory is the default destination warehouse
	Factory string `json:"factory"`
}

var defaultFormulas = []Formula{
	{ID: "m1", Code: "MST-CHM-001", Name: "Dung dịch tẩy rửa công nghiệp A1", Unit: "L", Color: "Blue", ColorCode: "BLU", Factory: "KHO-A"},
	{ID: "m2", Code: "MST-CHM-002", Name: "Sơn chống thấm ngoài trời X-Pro", Unit: "KG", Color: "Grey", ColorCode: "GRY", Factory: "KHO-B"},
	{ID: "m3", Code: "MST-CHM-003", Name: "Hỗn hợp phụ gia bê tông R7", Unit: "L", Color: "Clear", ColorCode: "CLR", Factory: "KHO-A"},
	{ID: "m4", Code: "MST-CHM-004", Name: "Keo dán gỗ Epoxy E200", Unit: "KG", Color: "Yellow", ColorCode: "YEL", Factory: "KHO-C"},
	{ID: "m5", Code: "MST-CHM-005", Name: "Chất làm mềm vải công nghiệp", Unit: "L", Color: "Pink", ColorCode: "PNK", Factory: "KHO-B"},
}

// DefaultFormulas returns a copy of the built-in master catalog
func DefaultFormulas() []Formula {
	out := make([]Formula, len(defaultFormulas))
	copy(out, defaultFormulas)
	return out
}

// FormulaCatalog looks formulas up by id or code
type FormulaCatalog struct {
	formulas []Formula
}

// NewFormulaCatalog builds a catalog; with no formulas the built-in set is used
func NewFormulaCatalog(formulas ...Formula) *FormulaCatalog {
	if len(formulas) == 0 {
		formulas = DefaultFormulas()
	}
	return &FormulaCatalog{formulas: formulas}
}

// List returns every formula in definition order
func (c *FormulaCatalog) List() []Formula {
	out := make([]Formula, len(c.formulas))
	copy(out, c.formulas)
	return out
}

// Find matches ref against id first, then code
func (c *FormulaCatalog) Find(ref string) (Formula, bool) {
	if ref == "" {
		return Formula{}, false
	}
	for _, f := range c.formulas {
		if f.ID == ref {
			return f, true
		}
	}
	for _, f := range c.formulas {
		if f.Code == ref {
			return f, true
		}
	}
	return Formula{}, false
}

// Factories returns the default warehouses of all formulas
func (c *FormulaCatalog) Factories() []string {
	out := make([]string, 0, len(c.formulas))
	for _, f := range c.formulas {
		out = append(out, f.Factory)
	}
	return out
}
