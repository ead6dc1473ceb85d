package warehouse

// SchemaInfo describes the finance warehouse for SQL generation prompts.
const SchemaInfo = `
## CFG Ukraine Finance Warehouse Schema

### FACT TABLES

#### Fact_Financials (Primary Financial Facts)
Main table for financial actuals, budget, and forecast data.

| Column | Type | Description |
|--------|------|-------------|
| FactKey | integer | Primary key |
| AccountKey | integer | FK to Dim_Account |
| EntityKey | integer | FK to entity (E250 = CFG Ukraine) |
| PeriodKey | integer | FK to Dim_Period (1-12) |
| ScenarioKey | integer | FK to Dim_Scenario |
| YearKey | integer | FK to Dim_Year |
| Amount | real | Financial amount in SAR |

### DIMENSION TABLES

#### Dim_Account
| Column | Type | Use |
|--------|------|-----|
| AccountKey | integer | Join key |
| AccountCode | text | Detail account |
| FinalParentAccountCode | text | **USE THIS** for grouping |
| Description | text | Account name |

#### Dim_Period
| Column | Type | Use |
|--------|------|-----|
| PeriodKey | integer | 1-12 for Jan-Dec |
| PeriodName | text | Jan, Feb, Mar... |
| PeriodNumber | integer | Use for ORDER BY |
| FiscalQuarter | text | Q1, Q2, Q3, Q4 |

#### Dim_Year
| Column | Type | Use |
|--------|------|-----|
| YearKey | integer | 1=FY24, 2=FY25 |
| CalendarYear | integer | 2024, 2025 |
| FiscalYearLabel | text | FY24, FY25 |

#### Dim_Scenario
| Column | Type | Use |
|--------|------|-----|
| ScenarioKey | integer | 1=Actual, 2=Forecast, 3=Budget |
| ScenarioName | text | Actual, Apr_Forecast, OEP_Plan |

### AVAILABLE ACCOUNT CATEGORIES (FinalParentAccountCode)

**Revenue & Margin:**
- Revenue
- Cost of Sales
- Gross Margin

**Operating Expenses:**
- General and administrative expenses
- Selling and distribution expenses
- Finance charge

### IMPORTANT: AVAILABLE TABLES ONLY
The only fact table available is Fact_Financials.
Do NOT reference vw_Crop_Performance, vw_Sales_Detail, or any crop-specific views.
All crop/operational data must come from the knowledge base, not SQL queries.

### DATA RANGES
- Financial Years: FY2024 (partial), FY2025 (full)
- Scenarios: Actual, Apr_Forecast, OEP_Plan (Budget)
`

const schemaDDL = `
CREATE TABLE IF NOT EXISTS Dim_Account (
	AccountKey INTEGER PRIMARY KEY,
	AccountCode TEXT,
	FinalParentAccountCode TEXT,
	Description TEXT
);
CREATE TABLE IF NOT EXISTS Dim_Period (
	PeriodKey INTEGER PRIMARY KEY,
	PeriodName TEXT,
	PeriodNumber INTEGER,
	FiscalQuarter TEXT
);
CREATE TABLE IF NOT EXISTS Dim_Year (
	YearKey INTEGER PRIMARY KEY,
	CalendarYear INTEGER,
	FiscalYearLabel TEXT
);
CREATE TABLE IF NOT EXISTS Dim_Scenario (
	ScenarioKey INTEGER PRIMARY KEY,
	ScenarioName TEXT
);
CREATE TABLE IF NOT EXISTS Fact_Financials (
	FactKey INTEGER PRIMARY KEY AUTOINCREMENT,
	AccountKey INTEGER NOT NULL,
	EntityKey INTEGER NOT NULL DEFAULT 250,
	PeriodKey INTEGER NOT NULL,
	ScenarioKey INTEGER NOT NULL,
	YearKey INTEGER NOT NULL,
	Amount REAL NOT NULL
);
`

type seedAccount struct {
	key    int
	code   string
	parent string
	desc   string
}

var seedAccounts = []seedAccount{
	{1, "REV", "Revenue", "Revenue"},
	{2, "COS", "Cost of Sales", "Cost of sales"},
	{3, "GM", "Gross Margin", "Gross margin"},
	{4, "GA", "General and administrative expenses", "G&A expenses"},
	{5, "SD", "Selling and distribution expenses", "Selling and distribution"},
	{6, "FIN", "Finance charge", "Finance charge"},
}

var seedPeriods = []struct {
	key     int
	name    string
	quarter string
}{
	{1, "Jan", "Q1"}, {2, "Feb", "Q1"}, {3, "Mar", "Q1"},
	{4, "Apr", "Q2"}, {5, "May", "Q2"}, {6, "Jun", "Q2"},
	{7, "Jul", "Q3"}, {8, "Aug", "Q3"}, {9, "Sep", "Q3"},
	{10, "Oct", "Q4"}, {11, "Nov", "Q4"}, {12, "Dec", "Q4"},
}

var seedYears = []struct {
	key   int
	year  int
	label string
}{
	{1, 2024, "FY24"},
	{2, 2025, "FY25"},
}

var seedScenarios = []struct {
	key  int
	name string
}{
	{1, "Actual"},
	{2, "Apr_Forecast"},
	{3, "OEP_Plan"},
}

// seedTotal is an annual amount for one account under one scenario. Actuals
// cover the year-to-date window only; budget and forecast span all twelve
// periods.
type seedTotal struct {
	account  int
	scenario int
	amount   float64
	months   int
}

// FY2025 totals in SAR. Actuals run through August.
var seedTotals = []seedTotal{
	{1, 1, 846_000_000, 8},
	{1, 2, 2_928_000_000, 12},
	{1, 3, 1_920_000_000, 12},
	{2, 1, -600_000_000, 8},
	{2, 2, -2_300_000_000, 12},
	{2, 3, -1_400_000_000, 12},
	{3, 1, 246_000_000, 8},
	{3, 2, 628_000_000, 12},
	{3, 3, 520_000_000, 12},
	{4, 1, -40_000_000, 8},
	{4, 2, -62_000_000, 12},
	{4, 3, -60_000_000, 12},
	{5, 1, -30_000_000, 8},
	{5, 2, -50_000_000, 12},
	{5, 3, -45_000_000, 12},
	{6, 1, -15_000_000, 8},
	{6, 2, -22_000_000, 12},
	{6, 3, -20_000_000, 12},
}
