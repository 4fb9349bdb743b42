package sanitize

import (
	"reflect"
	"testing"
)

func TestStructureWarnings(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{
			name:     "balanced list and table",
			fragment: "<ul><li>a</li></ul><table><tr><td>1</td></tr></table>",
			want:     nil,
		},
		{
			name:     "unclosed list",
			fragment: "<ul><li>One<li>Two</li>",
			want:     []string{"Malformed list structure: <ul> 1 != </ul> 0; <li> 2 != </li> 1"},
		},
		{
			name:     "unbalanced table",
			fragment: "<table><tr><th>A<td>B</td></tr>",
			want:     []string{"Malformed table structure: <table> 1 != </table> 0; <th> 1 != </th> 0"},
		},
		{
			name:     "both families",
			fragment: "<OL><li>x</ol><TR>",
			want: []string{
				"Malformed list structure: <li> 1 != </li> 0",
				"Malformed table structure: <tr> 1 != </tr> 0",
			},
		},
		{
			name:     "similar tag names are not counted",
			fragment: `<link rel="x"><thead><track><title>t</title>`,
			want:     nil,
		},
		{
			name:     "close tag with whitespace",
			fragment: "<ul ></ul >",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StructureWarnings(tt.fragment)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StructureWarnings() = %q, want %q", got, tt.want)
			}
		})
	}
}
