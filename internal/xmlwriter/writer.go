// =============================================================================
// Portfolio Import - XML Writer Module
// =============================================================================
//
// This module renders imported families as an XML document. Every number is
// written in canonical form, with the number as typed kept in an attribute.
//
// XML STRUCTURE:
//   <portfolio sheet="Synthèse des Statuts">
//     <family n="1" ref="FAM1">              <!-- Family, no ref for __no_ref__ -->
//       <titre>Capteur</titre>
//       <deposit n="1" row="2">              <!-- Deposit with global index -->
//         <country>FR</country>
//         <numeroDepot raw="FR9912345" outcome="rule" rule="FR">FR19990012345</numeroDepot>
//         <dateDepot>1999-04-02</dateDepot>
//         <statut>Publié</statut>
//         <inventeurs>
//           <inventeur>Dupont</inventeur>
//         </inventeurs>
//       </deposit>
//     </family>
//     <family n="2" ref="FAM2">
//       <deposit n="2" row="5">...</deposit> <!-- Note: global numbering continues -->
//     </family>
//   </portfolio>
//
// Empty fields are left out.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/clemsmoz/startingbloch-sub005/internal/converter"
	"github.com/clemsmoz/startingbloch-sub005/internal/patnum"
	"github.com/clemsmoz/startingbloch-sub005/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string

	// RootAttributes are additional attributes for the root element, written
	// in key order.
	RootAttributes map[string]string

	// DepositNumberingGlobal determines if deposit numbering is global.
	// If true: deposits are numbered 1, 2, 3, 4... across all families.
	// If false: deposits restart at 1 for each family.
	// Default: true
	DepositNumberingGlobal bool
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                 "  ",
		IncludeXMLDeclaration:  true,
		XMLVersion:             "1.0",
		Encoding:               "UTF-8",
		RootAttributes:         make(map[string]string),
		DepositNumberingGlobal: true,
	}
}

// Element names.
const (
	rootElement     = "portfolio"
	familyElement   = "family"
	depositElement  = "deposit"
	inventorsList   = "inventeurs"
	inventorElement = "inventeur"
)

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates an XML document from the families.
//
// PARAMETERS:
//   - families: The imported families.
//   - sheet: The sheet name, written on the root element when not empty.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if generation fails.
func Generate(families []types.ParsedFamily, sheet string) ([]byte, error) {
	options := DefaultGenerateOptions()
	if sheet != "" {
		options.RootAttributes["sheet"] = sheet
	}
	return GenerateWithOptions(families, options)
}

// GenerateWithOptions creates an XML document with custom options.
//
// GENERATION PROCESS:
//   1. Create the root element (portfolio)
//   2. For each family:
//      a. Create the family element with index and reference attributes
//      b. Add the family title
//      c. For each deposit, create the deposit element with its fields
//   3. Write the document with proper indentation
func GenerateWithOptions(families []types.ParsedFamily, options GenerateOptions) ([]byte, error) {
	if options.Indent == "" {
		options.Indent = "  "
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	root := buildDocument(families, options)
	writeElement(&buffer, root, options.Indent, 0)

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildDocument constructs the XML document structure.
func buildDocument(families []types.ParsedFamily, options GenerateOptions) XMLElement {
	root := XMLElement{XMLName: xml.Name{Local: rootElement}}
	for _, key := range sortedKeys(options.RootAttributes) {
		root.Attributes = append(root.Attributes, attr(key, options.RootAttributes[key]))
	}

	depositIndex := 1 // Global counter for deposits
	for i, family := range families {
		if !options.DepositNumberingGlobal {
			depositIndex = 1
		}
		root.Children = append(root.Children, buildFamilyElement(i+1, family, &depositIndex))
	}
	return root
}

// buildFamilyElement constructs a family element.
//
// STRUCTURE:
//   <family n="1" ref="FAM1">
//     <titre>...</titre>
//     <deposit n="1" row="2">...</deposit>
//   </family>
func buildFamilyElement(n int, family types.ParsedFamily, depositIndex *int) XMLElement {
	element := XMLElement{
		XMLName:    xml.Name{Local: familyElement},
		Attributes: []xml.Attr{attr("n", fmt.Sprintf("%d", n))},
	}
	if family.ReferenceFamille != "" {
		element.Attributes = append(element.Attributes, attr("ref", family.ReferenceFamille))
	}
	if family.Titre != "" {
		element.Children = append(element.Children, createSimpleElement("titre", family.Titre))
	}

	for _, deposit := range family.Deposits {
		element.Children = append(element.Children, buildDepositElement(*depositIndex, deposit))
		(*depositIndex)++
	}
	return element
}

// buildDepositElement constructs a deposit element, fields in depositFields
// order.
func buildDepositElement(n int, deposit types.ParsedDeposit) XMLElement {
	element := XMLElement{
		XMLName: xml.Name{Local: depositElement},
		Attributes: []xml.Attr{
			attr("n", fmt.Sprintf("%d", n)),
			attr("row", fmt.Sprintf("%d", deposit.SourceRow)),
		},
	}

	ids := converter.Canonical(deposit)
	for _, field := range depositFields {
		switch field.tag {
		case "numeroDepot":
			element.appendNumber(field.tag, deposit.NumeroDepot, ids.Depot)
		case "numeroPublication":
			element.appendNumber(field.tag, deposit.NumeroPublication, ids.Publication)
		case "numeroDelivrance":
			element.appendNumber(field.tag, deposit.NumeroDelivrance, ids.Delivrance)
		case inventorsList:
			if len(deposit.Inventeurs) == 0 {
				continue
			}
			list := XMLElement{XMLName: xml.Name{Local: inventorsList}}
			for _, name := range deposit.Inventeurs {
				list.Children = append(list.Children, createSimpleElement(inventorElement, name))
			}
			element.Children = append(element.Children, list)
		default:
			if value := field.value(deposit); value != "" {
				element.Children = append(element.Children, createSimpleElement(field.tag, value))
			}
		}
	}
	return element
}

// appendNumber adds a canonical number with its raw form and outcome.
func (e *XMLElement) appendNumber(tag, raw string, res patnum.Result) {
	if raw == "" {
		return
	}
	child := createSimpleElement(tag, res.Value)
	child.Attributes = []xml.Attr{attr("raw", raw), attr("outcome", res.Outcome.String())}
	if res.Rule != "" {
		child.Attributes = append(child.Attributes, attr("rule", res.Rule))
	}
	e.Children = append(e.Children, child)
}

// =============================================================================
// DEPOSIT FIELDS
// =============================================================================

// depositField describes one child of a deposit element.
type depositField struct {
	tag     string
	xsdType string
	value   func(types.ParsedDeposit) string
}

// depositFields lists the deposit children in document order.
var depositFields = []depositField{
	{tag: "country", xsdType: "xs:string", value: func(d types.ParsedDeposit) string { return d.CountryAlpha2 }},
	{tag: "numeroDepot", xsdType: "number"},
	{tag: "numeroPublication", xsdType: "number"},
	{tag: "numeroDelivrance", xsdType: "number"},
	{tag: "dateDepot", xsdType: "xs:date", value: func(d types.ParsedDeposit) string { return d.DateDepot }},
	{tag: "datePublication", xsdType: "xs:date", value: func(d types.ParsedDeposit) string { return d.DatePublication }},
	{tag: "dateDelivrance", xsdType: "xs:date", value: func(d types.ParsedDeposit) string { return d.DateDelivrance }},
	{tag: "statut", xsdType: "xs:string", value: func(d types.ParsedDeposit) string { return d.Statut }},
	{tag: "deposant", xsdType: "xs:string", value: func(d types.ParsedDeposit) string { return d.Deposant }},
	{tag: "client", xsdType: "xs:string", value: func(d types.ParsedDeposit) string { return d.Client }},
	{tag: inventorsList, xsdType: "list"},
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// createSimpleElement creates a simple XML element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	buffer.WriteString(strings.Repeat(indent, level))

	// Write opening tag.
	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	if len(element.Children) == 0 && element.Value == "" {
		// Self-closing tag.
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}

		buffer.WriteString(strings.Repeat(indent, level))
	}

	// Write closing tag.
	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		case '\n':
			buffer.WriteString("&#xA;")
		default:
			if isXMLChar(r) {
				buffer.WriteRune(r)
			}
		}
	}

	return buffer.String()
}

// isXMLChar reports whether r may appear in an XML 1.0 document. Control
// characters pasted from spreadsheets (vertical tab, form feed) may not.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	default:
		return r >= 0x10000 && r <= 0x10FFFF
	}
}
