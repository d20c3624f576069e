package weather

import "testing"

func TestParseCondition(t *testing.T) {
	tests := map[string]Condition{
		"Clear":   ConditionClear,
		"Clouds":  ConditionClouds,
		"Rain":    ConditionRain,
		"Snow":    ConditionSnow,
		"Fog":     ConditionFog,
		"Mist":    ConditionFog,
		"Tornado": ConditionOther,
		"Drizzle": ConditionOther,
		"rain":    ConditionOther,
		"":        ConditionOther,
	}

	for main, want := range tests {
		if got := ParseCondition(main); got != want {
			t.Errorf("ParseCondition(%q): expected %q, got %q", main, want, got)
		}
	}
}

func TestConditionIcon(t *testing.T) {
	tests := map[Condition]string{
		ConditionClear:  IconClear,
		ConditionClouds: IconClouds,
		ConditionRain:   IconRain,
		ConditionSnow:   IconSnow,
		ConditionFog:    IconFog,
		ConditionOther:  IconClear,
	}

	for cond, want := range tests {
		if got := cond.Icon(); got != want {
			t.Errorf("%q.Icon(): expected %q, got %q", cond, want, got)
		}
	}

	if got := ParseCondition("Tornado").Icon(); got != IconClear {
		t.Fatalf("unmapped categories should render with the clear icon, got %q", got)
	}
}
