package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pfsquare/library-service/library/internal/model"
)

func TestNormalizeBookNumber(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"b-102", "B-102"},
		{"  B-102  ", "B-102"},
		{"b #102!", "B102"},
		{"???", ""},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, model.NormalizeBookNumber(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"Alice Smith", "Alice Smith"},
		{"  Alice   Smith  ", "Alice Smith"},
		{"Alice, Smith!", "Alice Smith"},
		{"O'Brien", "OBrien"},
		{"...", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, model.NormalizeName(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeFlat(t *testing.T) {
	t.Parallel()
	require.Equal(t, "A-101", model.NormalizeFlat(" a-101 "))
	require.Equal(t, "B204", model.NormalizeFlat("b/204"))
}

func TestDate_JSON(t *testing.T) {
	t.Parallel()

	d := model.NewDate(2024, time.January, 15)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2024-01-15"`, string(data))

	var parsed model.Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-15"`), &parsed))
	require.True(t, parsed.Equal(d.Time))

	require.Error(t, json.Unmarshal([]byte(`"15/01/2024"`), &parsed))
}

func TestDate_Days(t *testing.T) {
	t.Parallel()

	issued := model.NewDate(2024, time.January, 1)
	require.Equal(t, model.NewDate(2024, time.January, 15), issued.AddDays(14))

	// the overdue rule is strict: exactly graceDays elapsed is on time
	const graceDays = 14
	onTime := model.NewDate(2024, time.January, 15)
	overdue := model.NewDate(2024, time.January, 16)
	require.False(t, onTime.DaysSince(issued) > graceDays)
	require.True(t, overdue.DaysSince(issued) > graceDays)
}

func TestCategory_Valid(t *testing.T) {
	t.Parallel()
	for _, c := range []model.Category{
		model.CategoryAdultFiction,
		model.CategoryAdultNonFiction,
		model.CategoryChildren,
		model.CategoryPhilosophy,
		model.CategoryNonEnglish,
	} {
		require.True(t, c.Valid(), "category %q", c)
	}
	require.False(t, model.Category("Cookbooks").Valid())
	require.False(t, model.Category("").Valid())
}

func TestValidShelf(t *testing.T) {
	t.Parallel()
	require.True(t, model.ValidShelf("R-1-0"))
	require.True(t, model.ValidShelf("R-3-1"))
	require.False(t, model.ValidShelf("r-1-0"))
	require.False(t, model.ValidShelf("R-1"))
	require.False(t, model.ValidShelf("basement"))
}

func TestUpdateBookRequest_Empty(t *testing.T) {
	t.Parallel()
	require.True(t, model.UpdateBookRequest{}.Empty())

	name := "Dune Messiah"
	require.False(t, model.UpdateBookRequest{Name: &name}.Empty())
}
