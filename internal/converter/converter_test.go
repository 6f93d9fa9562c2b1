package converter

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/clemsmoz/startingbloch-sub005/internal/patnum"
	"github.com/clemsmoz/startingbloch-sub005/internal/types"
	"github.com/clemsmoz/startingbloch-sub005/internal/xlsxparser"
)

// =============================================================================
// FIXTURES
// =============================================================================

func workbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func sheetOf(header []string, rows ...[]string) *types.Sheet {
	columns := types.KeyColumns(header)
	sheet := &types.Sheet{Name: "test", Columns: columns}
	for i, cells := range rows {
		sheet.Rows = append(sheet.Rows, types.NewRawRow(i+2, columns, cells))
	}
	return sheet
}

func parseSheet(t *testing.T, opts Options, sheet *types.Sheet) *Report {
	t.Helper()

	conv, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	report, err := conv.ParseSheet(sheet)
	if err != nil {
		t.Fatalf("ParseSheet failed: %v", err)
	}
	return report
}

// =============================================================================
// FORWARD FILL
// =============================================================================

func TestParseWorkbookForwardFillsReferenceAndStatus(t *testing.T) {
	data := workbook(t, "Synthèse des Statuts", [][]interface{}{
		{"Ref", "NumeroDepot", "Statut"},
		{"FAM1", "FR9912345", "Publié"},
		{"", "EP123456.7", ""},
	})

	families, err := ParseWorkbook(data)
	if err != nil {
		t.Fatalf("ParseWorkbook failed: %v", err)
	}
	if len(families) != 1 {
		t.Fatalf("expected 1 family, got %d", len(families))
	}

	fam := families[0]
	if fam.ReferenceFamille != "FAM1" || len(fam.Deposits) != 2 {
		t.Fatalf("family = %+v", fam)
	}
	second := fam.Deposits[1]
	if second.RefFamille != "FAM1" {
		t.Errorf("refFamille = %q, want FAM1", second.RefFamille)
	}
	if second.Statut != "Publié" {
		t.Errorf("statut = %q, want Publié", second.Statut)
	}
	if second.NumeroDepot != "EP123456.7" {
		t.Errorf("numeroDepot = %q", second.NumeroDepot)
	}
	if second.SourceRow != 3 {
		t.Errorf("sourceRow = %d, want 3", second.SourceRow)
	}
}

func TestPublicationNumberIsNeverForwardFilled(t *testing.T) {
	report := parseSheet(t, Options{}, sheetOf(
		[]string{"Ref", "Numéro de publication", "Date de dépôt"},
		[]string{"FAM1", "FR3012345", "15/03/2019"},
		[]string{"", "", ""},
	))

	deposits := report.Families[0].Deposits
	if deposits[1].NumeroPublication != "" {
		t.Errorf("publication carried forward: %q", deposits[1].NumeroPublication)
	}
	if deposits[1].DateDepot != "2019-03-15" {
		t.Errorf("deposit date not carried forward: %q", deposits[1].DateDepot)
	}
}

func TestForwardFillUpdatesOnNewValue(t *testing.T) {
	report := parseSheet(t, Options{}, sheetOf(
		[]string{"ref_famille", "statut"},
		[]string{"A", "Déposé"},
		[]string{"", ""},
		[]string{"B", ""},
		[]string{"", "Délivré"},
	))

	var got [][2]string
	for _, fam := range report.Families {
		for _, d := range fam.Deposits {
			got = append(got, [2]string{d.RefFamille, d.Statut})
		}
	}
	want := [][2]string{{"A", "Déposé"}, {"A", "Déposé"}, {"B", "Déposé"}, {"B", "Délivré"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRepeatedParsesDoNotShareState(t *testing.T) {
	conv, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}

	first := sheetOf([]string{"Ref", "Statut"}, []string{"FAM1", "Publié"})
	second := sheetOf([]string{"Ref", "Statut"}, []string{"", ""})

	if _, err := conv.ParseSheet(first); err != nil {
		t.Fatal(err)
	}
	report, err := conv.ParseSheet(second)
	if err != nil {
		t.Fatal(err)
	}

	d := report.Families[0].Deposits[0]
	if d.RefFamille != "" || d.Statut != "" {
		t.Errorf("state leaked between parses: %+v", d)
	}
	if report.Families[0].Key() != types.NoReferenceKey {
		t.Errorf("key = %q", report.Families[0].Key())
	}
}

// =============================================================================
// COMPOUND CELL AND COUNTRY
// =============================================================================

func TestCompoundCellResolvesRegionalOfficeByName(t *testing.T) {
	report := parseSheet(t, Options{}, sheetOf(
		[]string{"Ref", "Pays\n(Numéro de dépôt)"},
		[]string{"FAM1", "Europe\nEP2009000123.4"},
		[]string{"", "Allemagne\nEP 2009 000124.5"},
		[]string{"", "Planète Mars\nEP2009000125.6"},
	))

	deposits := report.Families[0].Deposits
	want := []struct{ number, country string }{
		{"EP2009000123.4", "EP"},
		{"EP2009000124.5", "DE"},
		{"EP2009000125.6", "EP"},
	}
	for i, w := range want {
		if deposits[i].NumeroDepot != w.number {
			t.Errorf("row %d numeroDepot = %q, want %q", i, deposits[i].NumeroDepot, w.number)
		}
		if deposits[i].CountryAlpha2 != w.country {
			t.Errorf("row %d country = %q, want %q", i, deposits[i].CountryAlpha2, w.country)
		}
	}
}

func TestDedicatedFilingColumnWinsOverCompoundCell(t *testing.T) {
	report := parseSheet(t, Options{}, sheetOf(
		[]string{"Ref", "NumeroDepot", "Pays", "Numéro de publication"},
		[]string{"FAM1", "FR1700574", "France\nFR9999999", "FR3050000"},
		[]string{"FAM1", "", "Japon\n2014 - 123456", "JP2015123456"},
	))

	deposits := report.Families[0].Deposits
	if deposits[0].NumeroDepot != "FR1700574" || deposits[0].CountryAlpha2 != "FR" {
		t.Errorf("first = %+v", deposits[0])
	}
	if deposits[1].NumeroDepot != "2014-123456" {
		t.Errorf("compound number = %q", deposits[1].NumeroDepot)
	}
	if deposits[1].CountryAlpha2 != "JP" {
		t.Errorf("country from publication prefix = %q", deposits[1].CountryAlpha2)
	}
}

func TestCustomRegionalOffices(t *testing.T) {
	sheet := sheetOf(
		[]string{"Ref", "Pays"},
		[]string{"FAM1", "Russie\nEA201500123"},
	)

	if got := parseSheet(t, Options{}, sheet).Families[0].Deposits[0].CountryAlpha2; got != "EA" {
		t.Errorf("default offices: country = %q, want EA", got)
	}
	got := parseSheet(t, Options{RegionalOffices: []string{"EP", "EA"}}, sheet).Families[0].Deposits[0].CountryAlpha2
	if got != "RU" {
		t.Errorf("EA regional: country = %q, want RU", got)
	}
}

// =============================================================================
// DATES
// =============================================================================

func TestUnparsableDateIsEmptiedAndReported(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	opts := Options{Logger: zap.New(core).Sugar()}

	report := parseSheet(t, opts, sheetOf(
		[]string{"Ref", "Titre", "NumeroDepot", "Numéro de publication", "Date de dépôt", "Statut"},
		[]string{"FAM1", "Capteur", "FR1700574", "FR3012345", "bientôt", "Déposé"},
	))

	d := report.Families[0].Deposits[0]
	if d.DateDepot != "" {
		t.Errorf("dateDepot = %q, want empty", d.DateDepot)
	}
	if d.Titre != "Capteur" || d.NumeroDepot != "FR1700574" || d.Statut != "Déposé" ||
		d.NumeroPublication != "FR3012345" || d.CountryAlpha2 != "FR" {
		t.Errorf("other fields lost: %+v", d)
	}

	want := []Diagnostic{{Row: 2, Field: "depositDate", Value: "bientôt", Message: "unparsable date, left empty"}}
	if !reflect.DeepEqual(report.Diagnostics, want) {
		t.Errorf("diagnostics = %+v", report.Diagnostics)
	}
	if logs.Len() != 1 {
		t.Errorf("expected 1 warning, got %d", logs.Len())
	}
}

func TestDatesAreNormalized(t *testing.T) {
	data := workbook(t, "Synthese", [][]interface{}{
		{"Ref", "Date de dépôt", "Date Publication", "Date de délivrance"},
		{"FAM1", 43831, "3 mars 2021", "01.02.85"},
	})

	conv, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	report, err := conv.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	d := report.Families[0].Deposits[0]
	if d.DateDepot != "2020-01-01" {
		t.Errorf("serial date = %q", d.DateDepot)
	}
	if d.DatePublication != "2021-03-03" {
		t.Errorf("month name date = %q", d.DatePublication)
	}
	if d.DateDelivrance != "1985-02-01" {
		t.Errorf("two-digit year date = %q", d.DateDelivrance)
	}
}

// =============================================================================
// OTHER FIELDS
// =============================================================================

func TestInventorsAndParties(t *testing.T) {
	report := parseSheet(t, Options{}, sheetOf(
		[]string{"Ref", "Inventeurs", "Deposant", "Client", "NumeroDelivrance"},
		[]string{"FAM1", "Dupont, Martin; Durand\nLefèvre ,", "ACME SA", "Client X", "FR 3 012 345"},
	))

	d := report.Families[0].Deposits[0]
	if want := []string{"Dupont", "Martin", "Durand", "Lefèvre"}; !reflect.DeepEqual(d.Inventeurs, want) {
		t.Errorf("inventeurs = %q", d.Inventeurs)
	}
	if d.Deposant != "ACME SA" || d.Client != "Client X" || d.NumeroDelivrance != "FR 3 012 345" {
		t.Errorf("deposit = %+v", d)
	}
}

func TestExtraAliasesAreTriedFirst(t *testing.T) {
	sheet := sheetOf(
		[]string{"Famille", "Ref"},
		[]string{"F-CONF", "F-DEFAULT"},
	)

	report := parseSheet(t, Options{ExtraAliases: map[string][]string{"reference": {"Famille"}}}, sheet)
	if got := report.Families[0].ReferenceFamille; got != "F-CONF" {
		t.Errorf("reference = %q, want F-CONF", got)
	}

	if _, err := New(Options{ExtraAliases: map[string][]string{"colour": {"x"}}}); !eris.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestBuildColumnMapNormalizedMatch(t *testing.T) {
	m, err := BuildColumnMap([]string{"Numero Publication", "  NUMÉRO DE PUBLICATION", "DATE DE DEPOT"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"Numero Publication", "  NUMÉRO DE PUBLICATION"}
	if got := m.Labels(FieldPublicationNumber); !reflect.DeepEqual(got, want) {
		t.Errorf("publication labels = %q, want %q", got, want)
	}
	if got := m.Labels(FieldDepositDate); !reflect.DeepEqual(got, []string{"DATE DE DEPOT"}) {
		t.Errorf("deposit date labels = %q", got)
	}
	if m.Has(FieldClient) {
		t.Error("client should not be bound")
	}
}

func TestFirstNonEmptyAliasWins(t *testing.T) {
	report := parseSheet(t, Options{}, sheetOf(
		[]string{"Ref", "numero_publication", "Publication"},
		[]string{"FAM1", "", "WO2016123456"},
	))

	if got := report.Families[0].Deposits[0].NumeroPublication; got != "WO2016123456" {
		t.Errorf("publication = %q", got)
	}
}

// =============================================================================
// GROUPING
// =============================================================================

func TestGroupFamiliesKeepsFirstAppearanceOrder(t *testing.T) {
	deposits := []types.ParsedDeposit{
		{RefFamille: "B", Titre: "", SourceRow: 2},
		{SourceRow: 3},
		{RefFamille: "A", Titre: "Alpha", SourceRow: 4},
		{RefFamille: "B", Titre: "Beta", SourceRow: 5},
	}

	families := GroupFamilies(deposits)
	if len(families) != 3 {
		t.Fatalf("expected 3 families, got %d", len(families))
	}

	keys := []string{families[0].Key(), families[1].Key(), families[2].Key()}
	if want := []string{"B", types.NoReferenceKey, "A"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	if families[0].Titre != "Beta" || len(families[0].Deposits) != 2 {
		t.Errorf("family B = %+v", families[0])
	}
	if families[1].ReferenceFamille != "" {
		t.Errorf("no-reference family should have an empty reference")
	}
}

func TestCanonicalIdentifiers(t *testing.T) {
	ids := Canonical(types.ParsedDeposit{
		NumeroDepot:       "FR9912345",
		NumeroPublication: "FR 3 012 345",
	})

	if ids.Depot.Value != "FR19990012345" || ids.Depot.Outcome != patnum.OutcomeRule {
		t.Errorf("depot = %+v", ids.Depot)
	}
	if ids.Publication.Value != "FR3012345" {
		t.Errorf("publication = %+v", ids.Publication)
	}
	if ids.Delivrance.Value != "" {
		t.Errorf("absent grant number should stay empty, got %+v", ids.Delivrance)
	}
}

// =============================================================================
// ERRORS AND FILES
// =============================================================================

func TestParseRejectsCorruptWorkbook(t *testing.T) {
	families, err := ParseWorkbook([]byte("not a workbook"))
	if !eris.Is(err, xlsxparser.ErrUnreadableWorkbook) {
		t.Fatalf("expected ErrUnreadableWorkbook, got %v", err)
	}
	if families != nil {
		t.Errorf("expected no partial result, got %v", families)
	}
}

func TestNewRejectsUnknownYearPolicy(t *testing.T) {
	if _, err := New(Options{YearPolicy: "roman"}); err == nil {
		t.Error("expected an error for an unknown year policy")
	}
}

func TestParseFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "portfolio.csv")
	if err := os.WriteFile(csvPath, []byte("Ref;NumeroDepot\nFAM1;FR1700574\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	xlsxPath := filepath.Join(dir, "portfolio.xlsx")
	if err := os.WriteFile(xlsxPath, workbook(t, "Synthese", [][]interface{}{{"Ref"}, {"FAM2"}}), 0o644); err != nil {
		t.Fatal(err)
	}

	conv, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	conv.opts.CSV.Delimiter = ";"

	report, err := conv.ParseFile(csvPath)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if got := report.Families[0].Deposits[0].NumeroDepot; got != "FR1700574" {
		t.Errorf("csv numeroDepot = %q", got)
	}

	report, err = conv.ParseFile(xlsxPath)
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	if got := report.Families[0].ReferenceFamille; got != "FAM2" {
		t.Errorf("xlsx reference = %q", got)
	}

	if _, err := conv.ParseFile(filepath.Join(dir, "notes.txt")); !eris.Is(err, ErrUnsupportedFile) {
		t.Errorf("expected ErrUnsupportedFile, got %v", err)
	}
}
