package patnum

import (
	"testing"

	"github.com/rotisserie/eris"
)

func TestCanonicalizeDeposit(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		outcome Outcome
	}{
		{"FR compact", "FR9912345", "FR19990012345", OutcomeRule},
		{"FR spaced", "FR 17 00574", "FR20170000574", OutcomeRule},
		{"EP tight", "EP13720022.6", "EP201307200226", OutcomeRule},
		{"EP spaced tight", "EP 13 720022 . 6", "EP201307200226", OutcomeRule},
		{"EP token form", "EP-13-720022-6", "EP201307200226", OutcomeRule},
		{"PCT compact", "PCT/EP2020/012345", "WO2020EP12345", OutcomeRule},
		{"PCT lower case", "pct/fr2017/000123", "WO2017FR123", OutcomeRule},
		{"WO token form", "WO 2017 FR 000123", "WO2017FR123", OutcomeRule},
		{"BR", "BR-11-2017-001234-5", "BR20171100005", OutcomeRule},
		{"US thousands", "US 11 , 278 , 568", "US20110278568", OutcomeRule},
		{"IN year on the right", "IN 1234/DEL/2015", "IN2015DEL1234", OutcomeRule},
		{"IN year on the left", "IN 2015/MUM/12345", "IN2015MUM12345", OutcomeRule},
		{"JP generic", "JP 2014-123456", "JP20140123456", OutcomeRule},
		{"CN no year", "CN 201410123456", "CN201410123456", OutcomeRule},
		{"unknown office falls back", "DE 10-2014-000123", "DE2014010000123", OutcomeGenericFallback},
		{"no digits", "N/A", "NA", OutcomeCleanup},
		{"empty", "", "", OutcomeCleanup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonicalize(tt.input, KindDeposit)
			if got.Value != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got.Value, tt.want)
			}
			if got.Outcome != tt.outcome {
				t.Errorf("Canonicalize(%q) outcome = %s, want %s", tt.input, got.Outcome, tt.outcome)
			}
		})
	}
}

func TestCanonicalizeDepositIdempotentForGenericOffices(t *testing.T) {
	inputs := []string{
		"JP 2014-123456",
		"CN 2014 1 0123456",
		"KR 10-2014-0114335",
		"AU 2019/000123",
		"CA 3012345",
	}

	for _, input := range inputs {
		first := Canonicalize(input, KindDeposit).Value
		second := Canonicalize(first, KindDeposit).Value
		if first != second {
			t.Errorf("not idempotent for %q: %q then %q", input, first, second)
		}
	}
}

func TestCanonicalizePublication(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		want  string
	}{
		{"KR 10 2014 0114335", KindPublication, "KR1020140114335"},
		{"EP 2 345 678", KindPublication, "EP2345678"},
		{"FR 3 012 345", KindGrant, "FR3012345"},
		{"WO 2015/000123", KindPublication, "WO2015000123"},
		{"US 0012345", KindGrant, "US12345"},
		{"KR 1234", KindPublication, "KR1234"},
		{"???", KindPublication, "???"},
	}

	for _, tt := range tests {
		if got := Canonicalize(tt.input, tt.kind).Value; got != tt.want {
			t.Errorf("Canonicalize(%q, %s) = %q, want %q", tt.input, tt.kind, got, tt.want)
		}
	}
}

func TestPublicationKRNeedsLeadingPrefix(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		outcome Outcome
		rule    string
	}{
		{"KR 10 2014 0114335", "KR1020140114335", OutcomeRule, "KR"},
		{"kr10-2014-0014335", "KR1020140014335", OutcomeRule, "KR"},
		{"10-2014-0114335 KR", "1020140114335KR", OutcomeCleanup, ""},
		{"WO KR 2014 0114335", "WOKR20140114335", OutcomeCleanup, ""},
	}

	for _, tt := range tests {
		got := Canonicalize(tt.input, KindPublication)
		if got.Value != tt.want || got.Outcome != tt.outcome || got.Rule != tt.rule {
			t.Errorf("Canonicalize(%q) = %+v, want {%s %s %s}", tt.input, got, tt.want, tt.outcome, tt.rule)
		}
	}
}

func TestCanonicalizeNeverKeepsWhitespace(t *testing.T) {
	for _, input := range []string{"  XX  12 34 ", "abc def", "FR 17 00574\n"} {
		for _, kind := range []Kind{KindDeposit, KindPublication, KindGrant} {
			got := Canonicalize(input, kind).Value
			for _, r := range got {
				if r == ' ' || r == '\t' || r == '\n' {
					t.Errorf("Canonicalize(%q, %s) = %q contains whitespace", input, kind, got)
				}
			}
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"depot", KindDeposit},
		{"Dépôt", KindDeposit},
		{"deposit", KindDeposit},
		{"publication", KindPublication},
		{"PUB", KindPublication},
		{"délivrance", KindGrant},
		{"grant", KindGrant},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if err != nil {
			t.Fatalf("ParseKind(%q) returned error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}

	if _, err := ParseKind("priority"); !eris.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestConvert(t *testing.T) {
	got, err := Convert("FR9912345", "dépôt")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if got != "FR19990012345" {
		t.Errorf("Convert = %q", got)
	}

	if _, err := Convert("FR9912345", "unknown"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestDepositRulesIsolated(t *testing.T) {
	rules := DepositRules("fr")
	if len(rules) != 1 || rules[0].Name != "FR" {
		t.Fatalf("unexpected FR rules: %+v", rules)
	}
	if _, ok := rules[0].Apply("EP13720022.6"); ok {
		t.Error("FR rule accepted an EP number")
	}
	if out, ok := rules[0].Apply("FR9912345"); !ok || out != "FR 1999 00 12345" {
		t.Errorf("FR rule = %q, %v", out, ok)
	}
	if len(DepositRules("ZZ")) != 0 {
		t.Error("expected no rules for unregistered prefix")
	}
}

func TestYear4Pivot(t *testing.T) {
	tests := map[string]string{"00": "2000", "49": "2049", "50": "1950", "99": "1999"}
	for in, want := range tests {
		if got := year4(in); got != want {
			t.Errorf("year4(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTokens(t *testing.T) {
	got := tokens("US11,278/568A1")
	want := []string{"US", "11", "278", "568", "A", "1"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tokens[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
