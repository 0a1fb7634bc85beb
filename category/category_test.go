package category

import "testing"

func TestMapLabel(t *testing.T) {
	testCases := []struct {
		label    string
		expected Category
	}{
		{"large pothole on road", RoadsAndStreetlights},
		{"Broken Street Light", RoadsAndStreetlights},
		{"burst water pipe", WaterSupply},
		{"leaking pipe near school", WaterSupply},
		{"overflowing garbage bin", GarbageOrSanitation},
		{"trash on sidewalk", GarbageOrSanitation},
		{"loose electricity wire", Electricity},
		{"fallen pole", Electricity},
		{"stray dog bite risk", HealthOrSafety},
		{"public health hazard", HealthOrSafety},
		{"broken bench", Others},
		{"", Others},
	}

	for _, testCase := range testCases {
		got := MapLabel(testCase.label)
		if got != testCase.expected {
			t.Errorf("MapLabel(%q): expected %s, got %s", testCase.label, testCase.expected, got)
		}
	}
}

func TestMapLabelFirstRuleWins(t *testing.T) {
	// "water on the road" matches both the roads and water rules; the roads
	// rule is earlier in the table.
	if got := MapLabel("water on the road"); got != RoadsAndStreetlights {
		t.Errorf("expected first matching rule to win, got %s", got)
	}
}
