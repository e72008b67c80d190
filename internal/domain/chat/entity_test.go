package chat

import "testing"

func TestCleanTrailer(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Réponse. (Réponse générée par: model-x)", "Réponse."},
		{"Réponse sans annotation.", "Réponse sans annotation."},
		{"(Réponse générée par: m) Texte après.", "Texte après."},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CleanTrailer(tc.in); got != tc.want {
			t.Fatalf("CleanTrailer(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
