package classify

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/stmtburn/internal/model"
)

func tx(amount, desc, counterparty string) model.Transaction {
	return model.Transaction{
		Amount:       decimal.RequireFromString(amount),
		Currency:     model.Currency,
		Description:  desc,
		Counterparty: counterparty,
	}
}

func TestClassify_Expenses(t *testing.T) {
	tests := []struct {
		name string
		tx   model.Transaction
		want model.Category
	}{
		{"groceries", tx("-23.40", "01.10.2025 AP nákup POS 23.40-", "LIDL DAKUJEME ZA NAKUP"), model.FoodGroceries},
		{"restaurant", tx("-12.00", "02.10.2025 AP nákup POS", "Pizzeria Zvon"), model.FoodRestaurant},
		{"coffee before bank fee", tx("-3.20", "03.10.2025 nákup", "SAINT COFFEE"), model.FoodRestaurant},
		{"delivery", tx("-18.90", "04.10.2025", "WOLT.COM"), model.FoodDelivery},
		{"bolt food before taxi", tx("-15.00", "04.10.2025", "Bolt Food"), model.FoodDelivery},
		{"taxi", tx("-7.30", "05.10.2025", "BOLT.EU"), model.TransportTaxi},
		{"rent", tx("-650.00", "06.10.2025 Platba", "Nájom byt"), model.HousingRent},
		{"mobile", tx("-15.00", "07.10.2025", "Telekom SK"), model.SubscriptionMobile},
		{"fuel", tx("-60.00", "08.10.2025", "SLOVNAFT 123"), model.TransportFuel},
		{"pharmacy", tx("-9.10", "09.10.2025", "Lekáreň Dr.Max"), model.HealthMedicine},
		{"gym", tx("-35.00", "10.10.2025", "GYMBEAM"), model.HealthFitness},
		{"beauty", tx("-11.00", "11.10.2025", "NOTINO"), model.ShoppingBeauty},
		{"clothes", tx("-49.99", "12.10.2025", "ZARA"), model.ShoppingClothes},
		{"electronics", tx("-199.00", "13.10.2025", "ALZA.SK"), model.ShoppingElectronics},
		{"education", tx("-12.99", "14.10.2025", "UDEMY"), model.Education},
		{"cinema", tx("-8.50", "15.10.2025", "CINEMAX"), model.Entertainment},
		{"games", tx("-59.99", "16.10.2025", "STEAMGAMES.COM"), model.Entertainment},
		{"stay", tx("-120.00", "17.10.2025", "BKG*BOOKING.COM HOTEL"), model.TravelStay},
		{"flight", tx("-45.00", "18.10.2025", "RYANAIR"), model.TravelTransport},
		{"media subscription", tx("-9.99", "19.10.2025", "NETFLIX.COM"), model.SubscriptionMedia},
		{"software subscription", tx("-2.99", "20.10.2025", "APPLE.COM/BILL"), model.SubscriptionSoftware},
		{"pets", tx("-20.00", "21.10.2025", "Zverimex"), model.Pets},
		{"bank fee", tx("-4.50", "22.10.2025 Poplatok za vedenie", ""), model.FeesBank},
		{"transfer", tx("-100.00", "23.10.2025 Prevod", ""), model.Transfer},
		{"other", tx("-1.00", "24.10.2025 nákup", "XYZ"), model.Other},
		{"zero amount uses expense rules", tx("0.00", "25.10.2025", "LIDL"), model.FoodGroceries},
		{"case insensitive", tx("-5.00", "26.10.2025", "lIdL"), model.FoodGroceries},
	}

	c := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.tx); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got.Code, tt.want.Code)
			}
		})
	}
}

func TestClassify_Income(t *testing.T) {
	tests := []struct {
		name string
		tx   model.Transaction
		want model.Category
	}{
		{"salary", tx("2100.00", "10.10.2025 Prijatá platba", "ACME mzda 10/2025"), model.IncomeSalary},
		{"freelance", tx("400.00", "11.10.2025", "Faktúra 2025001"), model.IncomeFreelance},
		{"passive", tx("1.20", "12.10.2025 Úrok", ""), model.IncomePassive},
		{"refund", tx("15.00", "13.10.2025 Visa Direct", "Refund ZARA"), model.IncomeRefund},
		{"income never hits expense rules", tx("50.00", "14.10.2025", "LIDL"), model.IncomeOther},
	}

	c := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.tx); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got.Code, tt.want.Code)
			}
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := Default()
	x := tx("-9.99", "01.10.2025", "NETFLIX.COM")
	first := c.Classify(x)
	for i := 0; i < 5; i++ {
		if got := c.Classify(x); got != first {
			t.Fatalf("call %d: Classify() = %s, want %s", i, got.Code, first.Code)
		}
	}
}

func TestAnnotate_ReturnsCopy(t *testing.T) {
	in := []model.Transaction{
		tx("-9.99", "01.10.2025", "NETFLIX.COM"),
		tx("100.00", "02.10.2025 Vklad", ""),
	}
	out := Default().Annotate(in)

	if in[0].CategoryCode != "" {
		t.Errorf("input mutated: CategoryCode = %q", in[0].CategoryCode)
	}
	if out[0].CategoryCode != model.SubscriptionMedia.Code || out[0].CategoryName != model.SubscriptionMedia.Name {
		t.Errorf("out[0] = %s/%s", out[0].CategoryCode, out[0].CategoryName)
	}
	if out[1].CategoryCode != model.IncomeOther.Code {
		t.Errorf("out[1].CategoryCode = %q, want INCOME_OTHER", out[1].CategoryCode)
	}
	if !out[0].Amount.Equal(in[0].Amount) || out[0].Description != in[0].Description {
		t.Error("Annotate changed parsed fields")
	}
}

func TestNew_ExtraRules(t *testing.T) {
	c, err := New(Rule{Category: model.Pets, Keywords: []string{"GranVet"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Classify(tx("-30.00", "01.10.2025", "granvet s.r.o.")); got != model.Pets {
		t.Errorf("Classify() = %s, want PETS", got.Code)
	}
	// built-in rules still take precedence
	c, err = New(Rule{Category: model.Gifts, Keywords: []string{"lidl"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Classify(tx("-5.00", "01.10.2025", "LIDL")); got != model.FoodGroceries {
		t.Errorf("Classify() = %s, want FOOD_GROCERIES", got.Code)
	}

	if _, err := New(Rule{Category: model.Pets, Keywords: []string{" "}}); err == nil {
		t.Error("expected error for blank keywords")
	}
	if _, err := New(Rule{Keywords: []string{"x"}}); err == nil {
		t.Error("expected error for empty category")
	}

	in, ex := c.Rules()
	if in != len(IncomeRules) || ex != len(ExpenseRules)+1 {
		t.Errorf("Rules() = %d, %d", in, ex)
	}
}

func TestRuleTable_CategoriesKnown(t *testing.T) {
	for i, r := range append(append([]Rule{}, IncomeRules...), ExpenseRules...) {
		if _, ok := model.LookupCategory(r.Category.Code); !ok {
			t.Errorf("rule %d: unknown category %q", i, r.Category.Code)
		}
		if len(r.Keywords) == 0 {
			t.Errorf("rule %d (%s): no keywords", i, r.Category.Code)
		}
	}
}
