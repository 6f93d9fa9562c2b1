package textnorm

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Dépôt", "depot"},
		{"  Synthèse   des Statuts ", "synthese des statuts"},
		{"FÉVRIER", "fevrier"},
		{"a\u00a0b", "a b"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.expected {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestKey(t *testing.T) {
	want := Key("numero_depot")
	for _, label := range []string{"NumeroDepot", "Numero Dépôt", "NUMÉRO-DÉPÔT"} {
		if got := Key(label); got != want {
			t.Errorf("Key(%q) = %q, want %q", label, got, want)
		}
	}
	if Key("Pays\n(Numéro de dépôt)") != "paysnumerodedepot" {
		t.Errorf("unexpected key for compound header: %q", Key("Pays\n(Numéro de dépôt)"))
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Synthèse des Statuts", "SYNTH") {
		t.Error("expected marker match")
	}
	if ContainsFold("Feuil1", "synth") {
		t.Error("unexpected marker match")
	}
}
