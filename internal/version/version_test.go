package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-embed/internal/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{"1.2.3", Version{1, 2, 3}, false},
		{"1.2", Version{1, 2, 0}, false},
		{"0.1.0", Version{0, 1, 0}, false},
		{"", Version{}, true},
		{"1", Version{}, true},
		{"1.2.3.4", Version{}, true},
		{"v1.2.3", Version{}, true},
		{"1.2.3-beta", Version{}, true},
		{"1.02.0", Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareAndNormalize(t *testing.T) {
	assert.Equal(t, 0, MustParse("1.2").Compare(MustParse("1.2.0")))
	assert.Equal(t, -1, MustParse("1.2.0").Compare(MustParse("1.10.0")))
	assert.Equal(t, 1, MustParse("2.0.0").Compare(MustParse("1.9.9")))
	assert.Equal(t, "1.2.0", Normalize("1.2"))
	assert.Equal(t, "garbage", Normalize("garbage"))
}

func TestDetect_CheckOrder(t *testing.T) {
	tests := []struct {
		name string
		rec  types.Record
		want string
	}{
		{
			"spec version wins over everything",
			types.Record{
				"specVersion":    "2.1.0",
				"schema_version": "1.0.0",
				"$schema":        "https://schemas.openresume.org/resume/1.3.0/schema.json",
			},
			"2.1.0",
		},
		{
			"legacy marker wins over schema ref",
			types.Record{
				"schema_version": "1.1.0",
				"$schema":        "https://schemas.openresume.org/resume/1.3.0/schema.json",
			},
			"1.1.0",
		},
		{
			"schema ref pattern",
			types.Record{"$schema": "https://schemas.openresume.org/resume/1.3.0/schema.json"},
			"1.3.0",
		},
		{
			"two-component marker is normalized",
			types.Record{"schema_version": "1.2"},
			"1.2.0",
		},
		{
			"no signal falls back",
			types.Record{"skills": []any{}},
			"2.0.0",
		},
		{
			"unparseable marker falls through to fallback",
			types.Record{"schema_version": "latest"},
			"2.0.0",
		},
		{
			"nil record falls back",
			nil,
			"2.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.rec, "2.0.0"))
		})
	}
}

func TestNearest(t *testing.T) {
	candidates := []Version{
		MustParse("1.0.0"),
		MustParse("1.1.0"),
		MustParse("1.3.0"),
		MustParse("2.0.0"),
	}

	tests := []struct {
		name   string
		target string
		want   string
		ok     bool
	}{
		{"exact neighbour below", "1.2.0", "1.3.0", true},
		{"closest above and below equidistant picks newer", "1.2.0", "1.3.0", true},
		{"future minor resolves to newest in line", "1.9.0", "1.3.0", true},
		{"patch-level distance", "1.0.5", "1.0.0", true},
		{"never crosses major", "3.0.0", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Nearest(MustParse(tt.target), candidates)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestNearest_TieBreaksTowardNewer(t *testing.T) {
	candidates := []Version{MustParse("1.1.0"), MustParse("1.3.0")}
	got, ok := Nearest(MustParse("1.2.0"), candidates)
	require.True(t, ok)
	assert.Equal(t, "1.3.0", got.String())
}
