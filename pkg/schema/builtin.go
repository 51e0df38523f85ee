package schema

// Wine is the 13 feature wine cultivar schema (UCI wine recognition data).
var Wine = register(Schema{
	Name: "wine",
	Fields: []Field{
		{Name: "alcohol", Description: "Alcohol content", Example: 13.2},
		{Name: "malic_acid", Description: "Malic acid", Example: 2.77},
		{Name: "ash", Description: "Ash content", Example: 2.51},
		{Name: "alcalinity_of_ash", Description: "Alcalinity of ash", Example: 18.5},
		{Name: "magnesium", Description: "Magnesium content", Example: 96.0},
		{Name: "total_phenols", Description: "Total phenols", Example: 2.45},
		{Name: "flavanoids", Description: "Flavanoids", Example: 2.53},
		{Name: "nonflavanoid_phenols", Description: "Non-flavanoid phenols", Example: 0.29},
		{Name: "proanthocyanins", Description: "Proanthocyanins", Example: 1.54},
		{Name: "color_intensity", Description: "Color intensity", Example: 4.6},
		{Name: "hue", Description: "Hue", Example: 1.04},
		{Name: "od280_od315", Description: "OD280/OD315 of diluted wines", Example: 2.77},
		{Name: "proline", Description: "Proline", Example: 562.0},
	},
})

// WineQuality is the 11 feature physicochemical wine quality schema.
var WineQuality = register(Schema{
	Name: "winequality",
	Fields: []Field{
		{Name: "fixed_acidity", Description: "Fixed acidity (g/dm3 tartaric acid)", Example: 7.4},
		{Name: "volatile_acidity", Description: "Volatile acidity (g/dm3 acetic acid)", Example: 0.7},
		{Name: "citric_acid", Description: "Citric acid (g/dm3)", Example: 0},
		{Name: "residual_sugar", Description: "Residual sugar (g/dm3)", Example: 1.9},
		{Name: "chlorides", Description: "Chlorides (g/dm3 sodium chloride)", Example: 0.076},
		{Name: "free_sulfur_dioxide", Description: "Free sulfur dioxide (mg/dm3)", Example: 11},
		{Name: "total_sulfur_dioxide", Description: "Total sulfur dioxide (mg/dm3)", Example: 34},
		{Name: "density", Description: "Density (g/cm3)", Example: 0.9978},
		{Name: "pH", Description: "pH", Example: 3.51},
		{Name: "sulphates", Description: "Sulphates (g/dm3 potassium sulphate)", Example: 0.56},
		{Name: "alcohol", Description: "Alcohol (% vol)", Example: 9.4},
	},
})
