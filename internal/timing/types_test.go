package timing

import "testing"

func TestResults_SetVariant(t *testing.T) {
	with := VariantResultSet{{Overall: OverallTiming{DOMContentLoaded: 1}}}
	without := VariantResultSet{{Overall: OverallTiming{DOMContentLoaded: 2}}, {}}

	var r Results
	if err := r.SetVariant(VariantWithHints, with); err != nil {
		t.Fatalf("SetVariant(%q) error = %v", VariantWithHints, err)
	}
	if err := r.SetVariant(VariantNoHints, without); err != nil {
		t.Fatalf("SetVariant(%q) error = %v", VariantNoHints, err)
	}
	if len(r.WithHints) != 1 || r.WithHints[0].Overall.DOMContentLoaded != 1 {
		t.Errorf("unexpected with-hints set %+v", r.WithHints)
	}
	if len(r.NoHints) != 2 {
		t.Errorf("unexpected no-hints set %+v", r.NoHints)
	}

	if err := r.SetVariant("half-hints", with); err == nil {
		t.Error("expected error for unknown variant")
	}
}

func TestVariantResultSet_Projections(t *testing.T) {
	set := VariantResultSet{
		{Overall: OverallTiming{DOMContentLoaded: 100, Load: 150}},
		{Overall: OverallTiming{DOMContentLoaded: 110, Load: 170}},
	}
	dom, load := set.DOMContentLoaded(), set.Load()
	if len(dom) != 2 || dom[0] != 100 || dom[1] != 110 {
		t.Errorf("DOMContentLoaded() = %v", dom)
	}
	if len(load) != 2 || load[0] != 150 || load[1] != 170 {
		t.Errorf("Load() = %v", load)
	}
}
