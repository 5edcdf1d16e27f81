package graph

// exampleRows are the two-row fixture used across the package tests.
func exampleRows() []Row {
	return []Row{
		{
			CountryColumn:  "China",
			SupplierColumn: "SUZLON LTD",
			ImporterColumn: "ACME INC",
			HSCodeColumn:   "850212",
			ProductColumn:  "Wind turbine generator set",
			ValueColumn:    "1000",
		},
		{
			CountryColumn:  "China",
			SupplierColumn: "Suzlon",
			ImporterColumn: "ACME",
			HSCodeColumn:   "850230",
			ProductColumn:  "Wind turbine blade",
			ValueColumn:    "500",
		},
	}
}

func row(country, supplier, importer, hs, value string) Row {
	return Row{
		CountryColumn:  country,
		SupplierColumn: supplier,
		ImporterColumn: importer,
		HSCodeColumn:   hs,
		ValueColumn:    value,
	}
}

func fullHS(level HSLevel) DisplayConfig {
	return DisplayConfig{Mode: ModeFull, Product: ProductByHSCode, HSLevel: level}
}
