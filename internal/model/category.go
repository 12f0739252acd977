package model

import "strings"

// Category is a semantic classification of a transaction.
type Category struct {
	Code string
	Name string
}

// IsIncome reports whether the category belongs to the income family.
func (c Category) IsIncome() bool {
	return strings.HasPrefix(c.Code, "INCOME_")
}

// IsSubscription reports whether the category is one of the SUBSCRIPTION_ tags.
func (c Category) IsSubscription() bool {
	return IsSubscriptionCode(c.Code)
}

// IsSubscriptionCode reports whether code carries the SUBSCRIPTION_ prefix.
func IsSubscriptionCode(code string) bool {
	return strings.HasPrefix(code, "SUBSCRIPTION_")
}

// UncategorizedCode is the bucket for expenses that never went through the classifier.
const UncategorizedCode = "UNC"

// Uncategorized is reported for expenses with an empty category code.
var Uncategorized = Category{Code: UncategorizedCode, Name: "Uncategorized"}

// Income
var (
	IncomeSalary    = Category{"INCOME_SALARY", "Salary"}
	IncomeFreelance = Category{"INCOME_FREELANCE", "Freelance / Side Jobs"}
	IncomePassive   = Category{"INCOME_PASSIVE", "Passive Income"}
	IncomeOther     = Category{"INCOME_OTHER", "Other Income"}
	IncomeRefund    = Category{"INCOME_REFUND", "Refunds"}
)

// Housing
var (
	HousingRent        = Category{"HOUSING_RENT", "Rent / Mortgage"}
	HousingUtils       = Category{"HOUSING_UTILS", "Utilities"}
	HousingInternetTV  = Category{"HOUSING_INTERNET_TV", "Internet / TV / Phone"}
	HousingMaintenance = Category{"HOUSING_MAINTENANCE", "Maintenance / Repairs"}
)

// Food
var (
	FoodGroceries    = Category{"FOOD_GROCERIES", "Groceries"}
	FoodRestaurant   = Category{"FOOD_RESTAURANT", "Restaurants / Cafes"}
	FoodDelivery     = Category{"FOOD_DELIVERY", "Food Delivery"}
	FoodCoffeeSnacks = Category{"FOOD_COFFEE_SNACKS", "Coffee / Snacks"}
)

// Transport and car
var (
	TransportPublic  = Category{"TRANSPORT_PUBLIC", "Public Transport"}
	TransportTaxi    = Category{"TRANSPORT_TAXI", "Taxi / Carsharing"}
	TransportFuel    = Category{"TRANSPORT_FUEL", "Fuel"}
	TransportParking = Category{"TRANSPORT_PARKING", "Parking / Toll Roads"}
	CarService       = Category{"CAR_SERVICE", "Car Service / Repairs"}
	CarInsurance     = Category{"CAR_INSURANCE", "Car Insurance"}
)

// Health
var (
	HealthMedicine = Category{"HEALTH_MEDICINE", "Medicine / Pharmacy"}
	HealthDoctor   = Category{"HEALTH_DOCTOR", "Doctors / Clinics"}
	HealthFitness  = Category{"HEALTH_FITNESS", "Gym / Fitness"}
	HealthSpa      = Category{"HEALTH_SPA", "SPA / Massage"}
)

// Shopping
var (
	ShoppingClothes     = Category{"SHOPPING_CLOTHES", "Clothes / Shoes"}
	ShoppingElectronics = Category{"SHOPPING_ELECTRONICS", "Electronics / Gadgets"}
	ShoppingBeauty      = Category{"SHOPPING_BEAUTY", "Beauty / Care"}
	ShoppingHome        = Category{"SHOPPING_HOME", "Home Goods"}
	ShoppingHobby       = Category{"SHOPPING_HOBBY", "Hobby / DIY"}
)

// Family, education, leisure
var (
	FamilyKids    = Category{"FAMILY_KIDS", "Kids / School / Activities"}
	FamilyGeneral = Category{"FAMILY_GENERAL", "Family Expenses"}
	Education     = Category{"EDUCATION", "Education / Courses / Books"}
	Entertainment = Category{"ENTERTAINMENT", "Entertainment / Movies / Games"}
	BarsNightlife = Category{"BARS_NIGHTLIFE", "Bars / Nightlife"}
)

// Travel
var (
	TravelTransport = Category{"TRAVEL_TRANSPORT", "Travel: Transport"}
	TravelStay      = Category{"TRAVEL_STAY", "Travel: Stay"}
	TravelOther     = Category{"TRAVEL_OTHER", "Travel: Other"}
)

// Subscriptions
var (
	SubscriptionMedia    = Category{"SUBSCRIPTION_MEDIA", "Subscriptions: Media"}
	SubscriptionSoftware = Category{"SUBSCRIPTION_SOFTWARE", "Subscriptions: Software"}
	SubscriptionMobile   = Category{"SUBSCRIPTION_MOBILE", "Subscriptions: Mobile / Internet"}
	SubscriptionOther    = Category{"SUBSCRIPTION_OTHER", "Subscriptions: Other"}
)

// Fees, gifts, business and the rest
var (
	FeesBank             = Category{"FEES_BANK", "Bank Fees"}
	FeesTaxes            = Category{"FEES_TAXES", "Taxes / Government Fees"}
	FeesFinancial        = Category{"FEES_FINANCIAL", "Financial Services"}
	Gifts                = Category{"GIFTS", "Gifts"}
	Donations            = Category{"DONATIONS", "Donations"}
	Pets                 = Category{"PETS", "Pets"}
	BusinessExpense      = Category{"BUSINESS_EXPENSE", "Business Expenses"}
	BusinessSubscription = Category{"BUSINESS_SUBSCRIPTION", "Business Subscriptions"}
	Transfer             = Category{"TRANSFER", "Transfers"}
	Other                = Category{"OTHER", "Other"}
)

var categories = []Category{
	IncomeSalary, IncomeFreelance, IncomePassive, IncomeOther, IncomeRefund,
	HousingRent, HousingUtils, HousingInternetTV, HousingMaintenance,
	FoodGroceries, FoodRestaurant, FoodDelivery, FoodCoffeeSnacks,
	TransportPublic, TransportTaxi, TransportFuel, TransportParking, CarService, CarInsurance,
	HealthMedicine, HealthDoctor, HealthFitness, HealthSpa,
	ShoppingClothes, ShoppingElectronics, ShoppingBeauty, ShoppingHome, ShoppingHobby,
	FamilyKids, FamilyGeneral, Education, Entertainment, BarsNightlife,
	TravelTransport, TravelStay, TravelOther,
	SubscriptionMedia, SubscriptionSoftware, SubscriptionMobile, SubscriptionOther,
	FeesBank, FeesTaxes, FeesFinancial,
	Gifts, Donations, Pets, BusinessExpense, BusinessSubscription,
	Transfer, Other,
}

var categoryIndex = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.Code] = c
	}
	return m
}()

// Categories returns the full category table in declaration order.
// The returned slice is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// LookupCategory finds a category by its code. Matching is case-insensitive.
func LookupCategory(code string) (Category, bool) {
	c, ok := categoryIndex[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}
