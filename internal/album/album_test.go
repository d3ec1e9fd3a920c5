package album

import (
	"reflect"
	"testing"
)

func TestClone_Independent(t *testing.T) {
	src := []Album{{UserID: 0, ID: 0, Title: "Album 1"}, {UserID: 0, ID: 1, Title: "Album 2"}}
	dup := Clone(src)
	dup[0].Title = "changed"
	if src[0].Title != "Album 1" {
		t.Fatalf("Clone shares backing array: src[0].Title = %q", src[0].Title)
	}
	if Clone(nil) != nil {
		t.Fatalf("Clone(nil) should be nil")
	}
}

func TestTitles(t *testing.T) {
	got := Titles([]Album{{Title: "a"}, {Title: "b"}})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Titles = %v, want [a b]", got)
	}
}

func TestFilter(t *testing.T) {
	albums := []Album{{ID: 1, Title: "Quidem Molestiae"}, {ID: 2, Title: "sunt qui"}, {ID: 3, Title: "omnis"}}

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"empty query keeps all", "  ", []int{1, 2, 3}},
		{"case insensitive", "QUI", []int{1, 2}},
		{"no match", "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []int
			for _, a := range Filter(albums, tt.query) {
				ids = append(ids, a.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Fatalf("Filter(%q) ids = %v, want %v", tt.query, ids, tt.want)
			}
		})
	}
}

func TestAlbum_StructuralEquality(t *testing.T) {
	a := Album{UserID: 1, ID: 2, Title: "x"}
	b := Album{UserID: 1, ID: 2, Title: "x"}
	if a != b {
		t.Fatalf("albums with identical fields should be equal")
	}
}
