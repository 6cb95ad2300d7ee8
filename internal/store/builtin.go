package store

// Builtin returns the degraded minimal vocabulary used when no product
// data is available at startup. It keeps the pipeline operational with a
// handful of common products per category; a real deployment seeds the
// SQL store and never reads this.
func Builtin() *MemoryStore {
	products := []Product{
		{Name: "Coca Cola 600ml", Category: "bebidas", Price: 18, Stock: 50, Popularity: 95, Tags: []string{"gaseosa", "con_azucar"}},
		{Name: "Coca Cola Sin Azucar 600ml", Category: "bebidas", Price: 19, Stock: 40, Popularity: 80, Tags: []string{"gaseosa", "sin_azucar"}},
		{Name: "Agua Mineral 1L", Category: "bebidas", Price: 12, Stock: 100, Popularity: 90, Tags: []string{"sin_azucar", "sin_gas"}},
		{Name: "Jugo de Naranja 1L", Category: "bebidas", Price: 28, Stock: 30, Popularity: 70, Tags: []string{"natural", "con_azucar"}},
		{Name: "Cerveza Clara 355ml", Category: "bebidas", Price: 22, Stock: 60, Popularity: 85, Tags: []string{"alcohol"}},
		{Name: "Leche Entera 1L", Category: "lacteos", Price: 24, Stock: 45, Popularity: 88, Tags: []string{"entera"}},
		{Name: "Leche Deslactosada 1L", Category: "lacteos", Price: 27, Stock: 25, Popularity: 60, Tags: []string{"sin_lactosa"}},
		{Name: "Yogurt Natural 900g", Category: "lacteos", Price: 32, Stock: 20, Popularity: 55, Tags: []string{"natural", "sin_azucar"}},
		{Name: "Queso Panela 400g", Category: "lacteos", Price: 48, Stock: 15, Popularity: 50, Tags: []string{}},
		{Name: "Pan Blanco Grande", Category: "panaderia", Price: 38, Stock: 35, Popularity: 75, Tags: []string{}},
		{Name: "Pan Integral", Category: "panaderia", Price: 42, Stock: 28, Popularity: 65, Tags: []string{"integral"}},
		{Name: "Galletas de Chocolate", Category: "panaderia", Price: 16, Stock: 70, Popularity: 72, Tags: []string{"chocolate", "con_azucar"}},
		{Name: "Papas Fritas Picantes 150g", Category: "botanas", Price: 17, Stock: 80, Popularity: 78, Tags: []string{"picante"}},
		{Name: "Papas Fritas Saladas 150g", Category: "botanas", Price: 17, Stock: 85, Popularity: 82, Tags: []string{"salado"}},
		{Name: "Cacahuates Enchilados 200g", Category: "botanas", Price: 21, Stock: 40, Popularity: 58, Tags: []string{"picante", "enchilado"}},
		{Name: "Manzana Roja kg", Category: "frutas", Price: 35, Stock: 50, Popularity: 68, Tags: []string{"natural"}},
		{Name: "Platano kg", Category: "frutas", Price: 19, Stock: 60, Popularity: 74, Tags: []string{"natural"}},
		{Name: "Detergente en Polvo 1kg", Category: "limpieza", Price: 45, Stock: 30, Popularity: 40, Tags: []string{}},
		{Name: "Jabon de Tocador", Category: "limpieza", Price: 14, Stock: 90, Popularity: 62, Tags: []string{}},
	}

	synonyms := []SynonymEntry{
		{Term: "coca", TargetName: "Coca Cola 600ml", TargetType: TargetProduct, Confidence: 0.95, UsageCount: 120},
		{Term: "refresco", TargetName: "bebidas", TargetType: TargetCategory, Confidence: 0.9, UsageCount: 80},
		{Term: "chesco", TargetName: "bebidas", TargetType: TargetCategory, Confidence: 0.8, UsageCount: 25},
		{Term: "soda", TargetName: "bebidas", TargetType: TargetCategory, Confidence: 0.85, UsageCount: 40},
		{Term: "chelas", TargetName: "Cerveza Clara 355ml", TargetType: TargetProduct, Confidence: 0.8, UsageCount: 35},
		{Term: "light", TargetName: "sin_azucar", TargetType: TargetAttribute, Confidence: 0.85, UsageCount: 50},
		{Term: "dietetico", TargetName: "sin_azucar", TargetType: TargetAttribute, Confidence: 0.8, UsageCount: 20},
		{Term: "enchiloso", TargetName: "picante", TargetType: TargetAttribute, Confidence: 0.8, UsageCount: 15},
		{Term: "botana", TargetName: "botanas", TargetType: TargetCategory, Confidence: 0.95, UsageCount: 60},
		{Term: "fruta", TargetName: "frutas", TargetType: TargetCategory, Confidence: 0.95, UsageCount: 55},
	}

	return NewMemoryStore(products, synonyms)
}
