// Package automotive serves the curated European car-market dataset
// backing the dashboard's market tabs: new-car registrations, the
// used-car market and EV sales. Figures are maintained by hand from
// annual industry reports rather than fetched from an API.
package automotive

// BrandStat is one brand's position in a market ranking.
type BrandStat struct {
	Name   string `json:"name"`
	Share  string `json:"share,omitempty"`
	Sales  string `json:"sales,omitempty"`
	Change string `json:"change,omitempty"`
}

// ModelStat is one model's position in a market ranking. Days is
// populated only for fastest-selling used-car rankings.
type ModelStat struct {
	Name   string `json:"name"`
	Sales  string `json:"sales,omitempty"`
	Change string `json:"change,omitempty"`
	Days   string `json:"days,omitempty"`
}

// CountrySection holds one country's figures within a tab.
type CountrySection struct {
	Name          string      `json:"name"`
	Sales         string      `json:"sales,omitempty"`
	Growth        string      `json:"growth"`
	Note          string      `json:"note,omitempty"`
	TopBrands     []string    `json:"top_brands,omitempty"`
	TopModels     []ModelStat `json:"top_models,omitempty"`
	FastestModels []ModelStat `json:"fastest_models,omitempty"`
}

// Overall holds a tab's market-wide figures.
type Overall struct {
	TotalSales     string      `json:"total_sales,omitempty"`
	Growth         string      `json:"growth"`
	MarketShare    string      `json:"market_share,omitempty"`
	TopBrands      []BrandStat `json:"top_brands"`
	TopModels      []ModelStat `json:"top_models,omitempty"`
	FastestSelling []ModelStat `json:"fastest_selling,omitempty"`
}

// TabData is the full dataset behind one dashboard tab.
type TabData struct {
	Tab       string           `json:"tab"`
	Title     string           `json:"title"`
	Overall   Overall          `json:"overall"`
	Countries []CountrySection `json:"countries"`
}

// Tab identifiers.
const (
	TabNewCars  = "new-cars"
	TabUsedCars = "used-cars"
	TabEVMarket = "ev-market"
)

// Tabs returns the tab identifiers in display order.
func Tabs() []string {
	return []string{TabNewCars, TabUsedCars, TabEVMarket}
}

// Get returns the dataset for a tab identifier.
func Get(tab string) (TabData, bool) {
	switch tab {
	case TabNewCars:
		return newCarData, true
	case TabUsedCars:
		return usedCarData, true
	case TabEVMarket:
		return evData, true
	}
	return TabData{}, false
}

var newCarData = TabData{
	Tab:   TabNewCars,
	Title: "New Car Registrations",
	Overall: Overall{
		TotalSales: "12,909,741",
		Growth:     "+0.9%",
		TopBrands: []BrandStat{
			{Name: "Volkswagen Group", Share: "20%", Change: "±0%"},
			{Name: "Stellantis", Share: "15%", Change: "-7%"},
			{Name: "Hyundai-Kia", Share: "12%", Change: "-1%"},
		},
		TopModels: []ModelStat{
			{Name: "Dacia Sandero", Sales: "268,101", Change: "+14%"},
			{Name: "Renault Clio", Sales: "216,317", Change: "+7%"},
			{Name: "Volkswagen Golf", Sales: "215,715", Change: "+17%"},
		},
	},
	Countries: []CountrySection{
		{
			Name:      "Germany",
			Sales:     "2,800,000",
			Growth:    "-1%",
			TopBrands: []string{"Volkswagen", "Mercedes-Benz", "BMW"},
			TopModels: []ModelStat{
				{Name: "Volkswagen Golf", Sales: "100,183"},
				{Name: "Volkswagen T-Roc", Sales: "75,398"},
				{Name: "Volkswagen Tiguan", Sales: "67,057"},
			},
		},
		{
			Name:      "United Kingdom",
			Sales:     "2,000,000",
			Growth:    "+2.6%",
			TopBrands: []string{"Ford", "Volkswagen", "BMW"},
			TopModels: []ModelStat{
				{Name: "Ford Puma", Sales: "48,340"},
				{Name: "Volkswagen Golf", Sales: "35,000"},
				{Name: "BMW X1", Sales: "30,000"},
			},
		},
		{
			Name:      "France",
			Sales:     "1,780,000",
			Growth:    "-3.2%",
			TopBrands: []string{"Renault", "Peugeot", "Citroën"},
			TopModels: []ModelStat{
				{Name: "Renault Clio", Sales: "91,435"},
				{Name: "Peugeot 208", Sales: "88,918"},
				{Name: "Dacia Sandero", Sales: "75,978"},
			},
		},
		{
			Name:      "Italy",
			Sales:     "1,560,000",
			Growth:    "-0.5%",
			TopBrands: []string{"Fiat", "Volkswagen", "Dacia"},
			TopModels: []ModelStat{
				{Name: "Fiat Panda", Sales: "99,871"},
				{Name: "Dacia Sandero", Sales: "60,380"},
				{Name: "Jeep Avenger", Sales: "41,184"},
			},
		},
		{
			Name:      "Spain",
			Sales:     "1,050,000",
			Growth:    "+7%",
			TopBrands: []string{"Dacia", "Toyota", "SEAT"},
			TopModels: []ModelStat{
				{Name: "Dacia Sandero", Sales: "32,994"},
				{Name: "Toyota Corolla", Sales: "22,124"},
				{Name: "SEAT Ibiza", Sales: "22,021"},
			},
		},
	},
}

var usedCarData = TabData{
	Tab:   TabUsedCars,
	Title: "Used Car Market",
	Overall: Overall{
		Growth: "+5.2%",
		TopBrands: []BrandStat{
			{Name: "Peugeot", Sales: "15,503", Change: "-9.7%"},
			{Name: "Dacia", Sales: "12,008", Change: "+8.3%"},
			{Name: "Mercedes-Benz", Sales: "11,741", Change: "+5%"},
		},
		FastestSelling: []ModelStat{
			{Name: "Dacia Sandero", Days: "28-34"},
			{Name: "Volkswagen Polo", Days: "32"},
			{Name: "Toyota Aygo", Days: "23-40"},
		},
	},
	Countries: []CountrySection{
		{
			Name:      "Germany",
			Growth:    "+4.6%",
			TopBrands: []string{"Volkswagen", "BMW", "Mercedes-Benz"},
			FastestModels: []ModelStat{
				{Name: "Tesla Model 3", Days: "30"},
				{Name: "Mercedes-Benz GLC", Days: "41"},
				{Name: "Skoda Kodiaq", Days: "44"},
			},
		},
		{
			Name:      "France",
			Growth:    "+2.8%",
			TopBrands: []string{"Renault", "Peugeot", "Citroën"},
			FastestModels: []ModelStat{
				{Name: "Volkswagen Polo", Days: "32"},
				{Name: "Dacia Duster", Days: "34"},
				{Name: "Toyota Aygo", Days: "40"},
			},
		},
		{
			Name:      "Italy",
			Growth:    "+9%",
			TopBrands: []string{"Fiat", "Dacia", "Volkswagen"},
			FastestModels: []ModelStat{
				{Name: "Dacia Sandero", Days: "34"},
				{Name: "Volvo XC40", Days: "42"},
				{Name: "Toyota C-HR", Days: "44"},
			},
		},
		{
			Name:      "Spain",
			Growth:    "+11.5%",
			TopBrands: []string{"Dacia", "Toyota", "Peugeot"},
			FastestModels: []ModelStat{
				{Name: "Toyota C-HR", Days: "22"},
				{Name: "Toyota Aygo", Days: "23"},
				{Name: "Fiat Tipo", Days: "30"},
			},
		},
	},
}

var evData = TabData{
	Tab:   TabEVMarket,
	Title: "EV Market",
	Overall: Overall{
		TotalSales:  "1,993,102",
		Growth:      "-1.3%",
		MarketShare: "15.4%",
		TopBrands: []BrandStat{
			{Name: "Tesla", Share: "25%", Change: "+5%"},
			{Name: "Volkswagen", Share: "18%", Change: "-2%"},
			{Name: "Volvo", Share: "12%", Change: "+15%"},
		},
		TopModels: []ModelStat{
			{Name: "Tesla Model Y", Sales: "200,000"},
			{Name: "Volkswagen ID.4/ID.5", Sales: "120,000"},
			{Name: "Tesla Model 3", Sales: "100,000"},
		},
	},
	Countries: []CountrySection{
		{
			Name:   "Germany",
			Sales:  "400,000",
			Growth: "-12%",
			Note:   "Sharp decline due to subsidy cuts",
			TopModels: []ModelStat{
				{Name: "Tesla Model Y", Sales: "29,896"},
				{Name: "Skoda Enyaq", Sales: "25,262"},
				{Name: "Volkswagen ID.4/ID.5", Sales: "21,611"},
			},
		},
		{
			Name:   "United Kingdom",
			Sales:  "300,000",
			Growth: "+8%",
			Note:   "Strong growth due to emission regulations",
			TopModels: []ModelStat{
				{Name: "Tesla Model Y", Sales: "35,000"},
				{Name: "MG4", Sales: "25,000"},
				{Name: "BMW iX1", Sales: "20,000"},
			},
		},
		{
			Name:   "Norway",
			Sales:  "120,000",
			Growth: "+1.4%",
			Note:   "89% EV market share",
			TopModels: []ModelStat{
				{Name: "Tesla Model Y", Sales: "16,858"},
				{Name: "Tesla Model 3", Sales: "7,264"},
				{Name: "Volvo EX30", Sales: "7,229"},
			},
		},
	},
}
