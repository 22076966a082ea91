package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Class 10 Science", Normalize("Class 10 PCMMB"))
	assert.Equal(t, "Class 10 Science", Normalize("  Class 10 PCMMB  "))
	assert.Equal(t, "Class 7", Normalize("Class 7"))
	assert.Equal(t, "Class 7", Normalize(" Class 7 "))
	assert.Equal(t, "", Normalize("   "))
}

func TestClassRuleEligible(t *testing.T) {
	rule := ClassRule{
		ClassName:          "Class 10 Science",
		GroupTarget:        "AFS Class 10 Science Batch 2026",
		EligibleProductIDs: []byte(`["p1","p2"]`),
	}
	assert.True(t, rule.Eligible("p1"))
	assert.True(t, rule.Eligible("p2"))
	assert.False(t, rule.Eligible("p3"))
	assert.True(t, rule.Configured())
}

func TestClassRuleConfigured(t *testing.T) {
	cases := []struct {
		name string
		rule ClassRule
		want bool
	}{
		{"no group target", ClassRule{EligibleProductIDs: []byte(`["p1"]`)}, false},
		{"empty product set", ClassRule{GroupTarget: "g", EligibleProductIDs: []byte(`[]`)}, false},
		{"nil product set", ClassRule{GroupTarget: "g"}, false},
		{"malformed product set", ClassRule{GroupTarget: "g", EligibleProductIDs: []byte(`{`)}, false},
		{"configured", ClassRule{GroupTarget: "g", EligibleProductIDs: []byte(`["p1"]`)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rule.Configured())
		})
	}
}
