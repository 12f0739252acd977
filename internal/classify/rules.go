package classify

import (
	"strings"

	"github.com/theirongolddev/stmtburn/internal/model"
)

// Rule maps a set of lowercase substrings to a category.
type Rule struct {
	Category model.Category
	Keywords []string
}

// IncomeRules are evaluated in order for positive amounts.
// Anything unmatched is model.IncomeOther.
var IncomeRules = []Rule{
	{model.IncomeSalary, []string{"salary", "mzda", "vyplata", "výplata", "wage", "payroll"}},
	{model.IncomeFreelance, []string{"invoice", "faktura", "faktúra", "freelance", "contractor", "odmena"}},
	{model.IncomePassive, []string{"dividend", "dividenda", "interest", "úrok", "urok", "yield"}},
	{model.IncomeRefund, []string{"refund", "reklamacia", "reklamácia", "vratka", "cashback", "chargeback"}},
}

// ExpenseRules are evaluated in order for zero and negative amounts.
// Order is significant: earlier rules shadow later ones on overlapping
// keywords (a "coffee" shop is a restaurant before a broader "fee" is a bank
// fee). Append new rules; do not reorder. Anything unmatched is model.Other.
var ExpenseRules = []Rule{
	{model.FoodGroceries, []string{
		"lidl", "tesco", "billa", "kaufland", "jednota", "coop", "potraviny",
		"grocery", "supermarket", "pb kosice 01", "pb kosice",
	}},
	{model.FoodRestaurant, []string{
		"pizzeria", "pizza", "restauracia", "restaurant", "bistro", "kebab", "kfc",
		"mcdonald", "mc donald", "burger king", "subway", "caffe", "cafe", "coffee",
		"koshi cafe", "koshice koshi cafe and restaur", "koshice koshi cafe", "koshice koshi",
		"zvon", "pizzeria zvon", "zatoka", "art food", "saint coffee", "sbx kosice aup",
	}},
	{model.FoodDelivery, []string{"wolt", "bolt food", "glovo", "ubereats", "uber eats", "foodora"}},

	{model.HousingRent, []string{"rent", "nájom", "podnájom", "hypoteka", "mortgage"}},
	{model.HousingUtils, []string{
		"electricity", "elektrina", "gas", "voda", "water", "heating", "teplo", "energie", "utility",
	}},
	{model.SubscriptionMobile, []string{
		"internet", "wifi", "telekom", "o2", "orange", "4ka", "4ka.sk", "isp", "tv", "cable", "lifecell",
	}},

	{model.TransportPublic, []string{
		"mhd", "dopravny podnik", "public transport", "bus", "tram", "metro", "bus station", "eurobus",
	}},
	{model.TransportTaxi, []string{"uber", "bolt", "lyft", "taxi", "taxisluzba"}},
	{model.TransportFuel, []string{"shell", "omv", "slovnaft", "gas station", "benzinka", "fuel", "diesel", "benzin"}},
	{model.TransportParking, []string{"parking", "parkov", "parkovisko", "parkovné"}},

	{model.HealthMedicine, []string{"lekaren", "lekáreň", "pharmacy", "apotheke"}},
	{model.HealthDoctor, []string{"klinika", "doctor", "ambulancia", "poliklinika", "hospital"}},
	{model.HealthFitness, []string{
		"gym", "fitness", "fitko", "workout", "sportcenter", "astoria fit&gym", "gymbeam", "biotech usa",
	}},

	{model.ShoppingBeauty, []string{"notino", "sephora", "douglas", "dm drogerie", "rossmann", "101 drogerie", " dm 272"}},
	{model.ShoppingClothes, []string{
		"h&m", "zara", "pull&bear", "bershka", "new yorker", "ccc", "footshop", "mango.com", "mango", "lara bags",
	}},
	{model.ShoppingElectronics, []string{"alza", "datart", "okay elektro", "nay", "electronic", "imedia", "mobil online"}},

	{model.Education, []string{"udemy", "coursera", "linkedin learning", "duolingo", "skillshare", "lingoda"}},
	{model.Entertainment, []string{"cinema", "cinemax", "kino", "multikino", "cinestar"}},
	{model.Entertainment, []string{"steam", "playstation", "xbox", "epic games", "gog.com", "nintendo", "steamgames.com"}},
	{model.BarsNightlife, []string{"bar", "pub", "nightclub", "club", "cocktail"}},

	{model.TravelStay, []string{"booking.com", "bkg*booking.com", "airbnb", "hotel", "hostel", "pension"}},
	{model.TravelTransport, []string{
		"ryanair", "wizzair", "lufthansa", "austrian airlines", "airlines", "train", "vlak", "regiojet", "flixbus",
	}},

	{model.SubscriptionMedia, []string{
		"netflix", "spotify", "youtube premium", "hbo", "disney+", "apple tv", "deezer", "tidal",
		"itunes.com apple.com/bill", "sony psn", "playstation network",
	}},
	{model.SubscriptionSoftware, []string{
		"apple.com/bill", "icloud", "google one", "dropbox", "onedrive", "microsoft 365", "office 365",
		"adobe", "canva", "notion", "figma", "slack", "github", "ubian.sk",
	}},

	{model.Donations, []string{"charity", "donation", "unicef", "červený kríž", "red cross", "fund", "foundation"}},
	{model.Gifts, []string{"gift", "darček", "flowers", "kvetinárstvo"}},
	{model.Pets, []string{"zverimex", "pet center", "petshop", "krmivo", "pet food", "veterinary"}},

	{model.FeesBank, []string{"fee", "poplatok", "bank fee", "vedenie uctu", "maintenance fee"}},
	{model.FeesTaxes, []string{"tax", "dane", "social insurance", "health insurance"}},

	{model.Transfer, []string{
		"prevod", "prijata platba", "prijatá platba", "odoslana platba", "odoslaná platba", "transfer", "sepa",
	}},
}

// matches reports whether any keyword occurs in text, which must already be lowercase.
func (r Rule) matches(text string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
