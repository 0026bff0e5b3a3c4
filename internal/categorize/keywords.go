package categorize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/centsible/centsible-server/internal/models"
)

// categoryOrder fixes the iteration order for keyword matching. First
// category with a keyword hit wins, so more specific categories come before
// broad ones. OTHER is the fallback and carries no keywords.
var categoryOrder = []models.Category{
	models.CategoryHousing,
	models.CategoryDebt,
	models.CategorySavings,
	models.CategoryInsurance,
	models.CategoryUtilities,
	models.CategoryTransport,
	models.CategoryGroceries,
	models.CategoryDining,
	models.CategoryEntertainment,
	models.CategoryShopping,
	models.CategoryLiving,
}

// defaultKeywords is the built-in rule table. Keywords are lowercase and
// matched as case-insensitive substrings of the transaction description.
var defaultKeywords = map[models.Category][]string{
	models.CategoryHousing: {
		"rent", "bond repayment", "home loan", "levies", "body corporate",
	},
	models.CategoryDebt: {
		"loan", "credit card", "installment", "instalment", "capfin",
		"vehicle finance", "wesbank", "mfc ", "debt review",
	},
	models.CategorySavings: {
		"savings", "investment", "unit trust", "easy equities", "32 day",
		"fixed deposit", "tfsa",
	},
	models.CategoryInsurance: {
		"insurance", "assurance", "outsurance", "santam", "discovery life",
		"momentum", "old mutual", "sanlam", "naked", "medical aid", "gems",
	},
	models.CategoryUtilities: {
		"electricity", "prepaid elec", "municipality", "city of", "eskom",
		"water", "rates", "telkom", "vodacom", "mtn", "cell c", "rain",
		"fibre", "dstv", "netflix", "showmax", "spotify",
	},
	models.CategoryTransport: {
		"fuel", "petrol", "engen", "shell", "bp ", "sasol", "caltex", "total",
		"uber", "bolt", "gautrain", "toll", "parking", "taxify",
	},
	models.CategoryGroceries: {
		"checkers", "shoprite", "pick n pay", "pnp", "woolworths", "spar",
		"food lover", "boxer", "grocer", "makro",
	},
	models.CategoryDining: {
		"restaurant", "mcdonald", "kfc", "nando", "steers", "wimpy",
		"mr d food", "uber eats", "debonairs", "romans", "spur", "coffee",
		"cafe",
	},
	models.CategoryEntertainment: {
		"movies", "ster-kinekor", "nu metro", "ticketpro", "computicket",
		"playstation", "steam", "xbox", "lotto", "betway",
	},
	models.CategoryShopping: {
		"takealot", "amazon", "mr price", "edgars", "truworths", "foschini",
		"game ", "clicks", "dis-chem", "pep ", "ackermans", "superbalist",
		"shein", "temu",
	},
	models.CategoryLiving: {
		"pharmacy", "doctor", "dentist", "school fees", "creche", "gym",
		"virgin active", "planet fitness", "salon", "barber", "vet",
	},
}

// keywordsFile is the YAML shape for an on-disk keyword table override.
type keywordsFile struct {
	Categories []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"categories"`
}

// LoadTable reads a keyword table from a YAML file. Categories not listed in
// the file keep their built-in keywords; unknown category names are an error
// so typos in the config do not silently drop rules.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keywords file: %w", err)
	}

	var kf keywordsFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parsing keywords file: %w", err)
	}

	t := DefaultTable()
	for _, c := range kf.Categories {
		if !models.ValidCategory(c.Name) {
			return nil, fmt.Errorf("unknown category %q in keywords file", c.Name)
		}
		t.keywords[models.ParseCategory(c.Name)] = lowerAll(c.Keywords)
	}
	return t, nil
}
