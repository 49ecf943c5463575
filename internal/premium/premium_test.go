package premium

import (
	"math"
	"testing"
)

func TestLegacyExampleScenario(t *testing.T) {
	// age 40, RM 1,000,000 legacy: (1,000,000/1000)*9 = 9000 annual.
	r := Legacy(40, 1000000)
	if !r.Eligible {
		t.Fatalf("expected eligible, got decline: %s", r.Reason)
	}
	if r.Annual != 9000.00 {
		t.Errorf("annual = %v, want 9000.00", r.Annual)
	}
	if r.Monthly != 750.00 {
		t.Errorf("monthly = %v, want 750.00", r.Monthly)
	}
}

func TestLegacyDeclines(t *testing.T) {
	tests := []struct {
		name   string
		age    int
		amount float64
	}{
		{"underage", 17, 500000},
		{"over max age", 71, 500000},
		{"zero amount", 40, 0},
		{"negative amount", 40, -100},
		{"below minimum amount", 40, 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Legacy(tt.age, tt.amount)
			if r.Eligible {
				t.Errorf("Legacy(%d, %v) unexpectedly eligible", tt.age, tt.amount)
			}
			if r.Reason == "" {
				t.Error("decline without reason")
			}
			if r.Annual != 0 || r.Monthly != 0 {
				t.Errorf("decline carried premium values: %+v", r)
			}
		})
	}
}

func TestLegacyAgeBandMonotonicity(t *testing.T) {
	const amount = 500000
	prev := 0.0
	for age := 18; age <= 70; age++ {
		r := Legacy(age, amount)
		if !r.Eligible {
			t.Fatalf("age %d unexpectedly declined: %s", age, r.Reason)
		}
		if r.Annual < prev {
			t.Errorf("annual premium decreased at age %d: %v < %v", age, r.Annual, prev)
		}
		prev = r.Annual
	}
}

func TestMedicalExampleScenario(t *testing.T) {
	// age 40, comprehensive: 2015.10/12 = 167.925, rounded 167.93.
	r := Medical(40, MedicalComprehensive)
	if !r.Eligible {
		t.Fatalf("expected eligible, got decline: %s", r.Reason)
	}
	if r.Monthly != 167.93 {
		t.Errorf("monthly = %v, want 167.93", r.Monthly)
	}
}

func TestMedicalBasicDiscount(t *testing.T) {
	basic := Medical(40, MedicalBasic)
	comp := Medical(40, MedicalComprehensive)
	if !basic.Eligible || !comp.Eligible {
		t.Fatal("expected both tiers eligible at 40")
	}
	// Each tier rounds its own monthly, so the gap can drift by one cent
	// around the flat RM 20 discount (167.93 vs 147.92 at age 40).
	gap := comp.Monthly - basic.Monthly
	if diff := math.Abs(gap - float64(BasicMonthlyDiscount)); diff > 0.01 {
		t.Errorf("tier gap = %v, want %v within one cent", gap, float64(BasicMonthlyDiscount))
	}
}

func TestMedicalDeclines(t *testing.T) {
	if r := Medical(17, MedicalBasic); r.Eligible {
		t.Error("underage unexpectedly eligible")
	}
	if r := Medical(65, MedicalComprehensive); r.Eligible {
		t.Error("age 65 unexpectedly eligible")
	}
	if r := Medical(40, MedicalTier(2)); r.Eligible {
		t.Error("unknown tier unexpectedly eligible")
	}
}

func TestMedicalMonotonicity(t *testing.T) {
	for _, tier := range []MedicalTier{MedicalBasic, MedicalComprehensive} {
		prev := 0.0
		for age := 18; age <= 64; age++ {
			r := Medical(age, tier)
			if !r.Eligible {
				t.Fatalf("tier %d age %d unexpectedly declined: %s", tier, age, r.Reason)
			}
			if r.Monthly < prev {
				t.Errorf("tier %d: monthly decreased at age %d: %v < %v", tier, age, r.Monthly, prev)
			}
			prev = r.Monthly
		}
		// Higher tier never cheaper at any age.
		if tier == MedicalBasic {
			continue
		}
		for age := 18; age <= 64; age++ {
			if Medical(age, MedicalComprehensive).Monthly < Medical(age, MedicalBasic).Monthly {
				t.Errorf("comprehensive cheaper than basic at age %d", age)
			}
		}
	}
}

func TestComboExampleScenario(t *testing.T) {
	// age 30, Gold: band 26-35 annual 3600.
	r := Combo(30, ComboGold)
	if !r.Eligible {
		t.Fatalf("expected eligible, got decline: %s", r.Reason)
	}
	if r.Annual != 3600.00 {
		t.Errorf("annual = %v, want 3600.00", r.Annual)
	}
	if r.Monthly != 300.00 {
		t.Errorf("monthly = %v, want 300.00", r.Monthly)
	}
}

func TestComboDeclines(t *testing.T) {
	if r := Combo(17, ComboSilver); r.Eligible {
		t.Error("underage unexpectedly eligible")
	}
	if r := Combo(55, ComboGold); r.Eligible {
		t.Error("age 55 should route to advisor, not quote")
	}
	if r := Combo(30, ComboTier(9)); r.Eligible {
		t.Error("unknown tier unexpectedly eligible")
	}
}

func TestComboMonotonicity(t *testing.T) {
	tiers := []ComboTier{ComboSilver, ComboGold, ComboPlatinum}
	for _, tier := range tiers {
		prev := 0.0
		for age := 18; age <= 54; age++ {
			r := Combo(age, tier)
			if !r.Eligible {
				t.Fatalf("tier %d age %d unexpectedly declined: %s", tier, age, r.Reason)
			}
			if r.Annual < prev {
				t.Errorf("tier %d: annual decreased at age %d", tier, age)
			}
			prev = r.Annual
		}
	}
	for age := 18; age <= 54; age++ {
		for i := 1; i < len(tiers); i++ {
			if Combo(age, tiers[i]).Annual < Combo(age, tiers[i-1]).Annual {
				t.Errorf("tier %d cheaper than tier %d at age %d", tiers[i], tiers[i-1], age)
			}
		}
	}
}
