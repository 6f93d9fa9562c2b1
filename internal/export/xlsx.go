package export

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/clemsmoz/startingbloch-sub005/internal/converter"
)

// Sheet names of the XLSX export.
const (
	DepositsSheet    = "Deposits"
	DiagnosticsSheet = "Diagnostics"
)

var depositHeader = []interface{}{
	"Ref Famille", "Titre", "Pays",
	"Numéro de dépôt", "Dépôt canonique",
	"Numéro de publication", "Publication canonique",
	"Numéro de délivrance", "Délivrance canonique",
	"Date de dépôt", "Date de publication", "Date de délivrance",
	"Statut", "Inventeurs", "Déposant", "Client", "Ligne source",
}

var diagnosticHeader = []interface{}{"Ligne", "Champ", "Valeur", "Message"}

// renderXLSX writes one row per deposit, families in order.
func renderXLSX(report *converter.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DepositsSheet); err != nil {
		return nil, eris.Wrap(err, "failed to name deposits sheet")
	}
	if _, err := f.NewSheet(DiagnosticsSheet); err != nil {
		return nil, eris.Wrap(err, "failed to create diagnostics sheet")
	}

	rows := [][]interface{}{depositHeader}
	for _, family := range report.Families {
		for _, d := range family.Deposits {
			ids := converter.Canonical(d)
			titre := d.Titre
			if titre == "" {
				titre = family.Titre
			}
			rows = append(rows, []interface{}{
				family.ReferenceFamille, titre, d.CountryAlpha2,
				d.NumeroDepot, ids.Depot.Value,
				d.NumeroPublication, ids.Publication.Value,
				d.NumeroDelivrance, ids.Delivrance.Value,
				d.DateDepot, d.DatePublication, d.DateDelivrance,
				d.Statut, strings.Join(d.Inventeurs, ", "), d.Deposant, d.Client, d.SourceRow,
			})
		}
	}
	if err := writeRows(f, DepositsSheet, rows); err != nil {
		return nil, err
	}

	rows = [][]interface{}{diagnosticHeader}
	for _, d := range report.Diagnostics {
		rows = append(rows, []interface{}{d.Row, d.Field, d.Value, d.Message})
	}
	if err := writeRows(f, DiagnosticsSheet, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, eris.Wrap(err, "failed to write XLSX export")
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return eris.Wrap(err, "invalid cell")
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return eris.Wrapf(err, "failed to write %s row %d", sheet, i+1)
		}
	}
	return nil
}
