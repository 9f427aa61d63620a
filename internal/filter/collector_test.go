package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectGenres(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		form Form
		want string
	}{
		{
			name: "nil form",
			form: nil,
			want: "",
		},
		{
			name: "nothing checked",
			form: Checkboxes{
				{Name: GenreField, Value: "3"},
				{Name: GenreField, Value: "7"},
			},
			want: "",
		},
		{
			name: "one checked",
			form: Checkboxes{
				{Name: GenreField, Value: "3", Checked: true},
				{Name: GenreField, Value: "7"},
			},
			want: "3",
		},
		{
			name: "two checked keeps document order",
			form: Checkboxes{
				{Name: GenreField, Value: "3", Checked: true},
				{Name: GenreField, Value: "5"},
				{Name: GenreField, Value: "7", Checked: true},
			},
			want: "3,7",
		},
		{
			name: "other checkbox names are ignored",
			form: Checkboxes{
				{Name: "ano", Value: "1999", Checked: true},
				{Name: GenreField, Value: "7", Checked: true},
			},
			want: "7",
		},
		{
			name: "values are not validated",
			form: Checkboxes{
				{Name: GenreField, Value: "abc", Checked: true},
				{Name: GenreField, Value: "", Checked: true},
			},
			want: "abc,",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollectGenres(tt.form))
		})
	}
}

func TestSplitGenres(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SplitGenres(""))
	assert.Equal(t, []string{"3"}, SplitGenres("3"))
	assert.Equal(t, []string{"3", "7"}, SplitGenres(" 3, ,7 "))
}
