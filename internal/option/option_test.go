package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionEqual(t *testing.T) {
	tests := []struct {
		name     string
		a        Selection
		b        Selection
		expected bool
	}{
		{
			name:     "given nil and empty selection should be equal",
			a:        nil,
			b:        Selection{},
			expected: true,
		},
		{
			name:     "given same choices inserted in different order should be equal",
			a:        Selection{KindWeight: "200g", KindGrind: "whole bean"},
			b:        Selection{KindGrind: "whole bean", KindWeight: "200g"},
			expected: true,
		},
		{
			name:     "given different grind should not be equal",
			a:        Selection{KindWeight: "200g", KindGrind: "espresso"},
			b:        Selection{KindWeight: "200g", KindGrind: "drip"},
			expected: false,
		},
		{
			name:     "given missing kind should not be equal",
			a:        Selection{KindWeight: "200g"},
			b:        Selection{KindWeight: "200g", KindGrind: "drip"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Equal(tt.b))
		})
	}
}

func TestSelectionCanonical(t *testing.T) {
	s := Selection{KindWeight: "500g", KindGrind: "french press"}
	assert.Equal(t, `{"GRIND":"french press","WEIGHT":"500g"}`, string(s.Canonical()))
	assert.Equal(t, "null", string(Selection(nil).Canonical()))
}

func TestSelectionValidate(t *testing.T) {
	assert.NoError(t, Selection{KindWeight: "200g"}.Validate())
	assert.NoError(t, Selection(nil).Validate())
	assert.Error(t, Selection{Kind("ROAST"): "dark"}.Validate())
	assert.Error(t, Selection{KindGrind: ""}.Validate())
}

func TestSelectionScan(t *testing.T) {
	var s Selection
	assert.NoError(t, s.Scan([]byte(`{"WEIGHT":"1kg"}`)))
	assert.Equal(t, Selection{KindWeight: "1kg"}, s)

	assert.NoError(t, s.Scan(nil))
	assert.Nil(t, s)

	assert.NoError(t, s.Scan([]byte(`{}`)))
	assert.Nil(t, s)

	assert.Error(t, s.Scan(42))

	v, err := Selection{}.Value()
	assert.NoError(t, err)
	assert.Nil(t, v)
}
