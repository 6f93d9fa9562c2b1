package xmlwriter

import (
	"bytes"
	"fmt"
	"strings"
)

// =============================================================================
// XSD GENERATION
// =============================================================================

// GenerateXSD returns the XML Schema of the documents written by Generate.
//
// RETURNS:
//   - The XSD document as a byte slice.
func GenerateXSD() []byte {
	var buffer bytes.Buffer

	buffer.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
`)

	// Root element definition.
	buffer.WriteString(fmt.Sprintf(`  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
        <xs:element ref="%s" minOccurs="0" maxOccurs="unbounded"/>
      </xs:sequence>
      <xs:anyAttribute processContents="lax"/>
    </xs:complexType>
  </xs:element>

`, rootElement, familyElement))

	// Family element definition.
	buffer.WriteString(fmt.Sprintf(`  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="titre" type="xs:string" minOccurs="0"/>
        <xs:element ref="%s" maxOccurs="unbounded"/>
      </xs:sequence>
      <xs:attribute name="n" type="xs:positiveInteger" use="required"/>
      <xs:attribute name="ref" type="xs:string"/>
    </xs:complexType>
  </xs:element>

`, familyElement, depositElement))

	// Deposit element definition.
	buffer.WriteString(fmt.Sprintf(`  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
`, depositElement))

	for _, field := range depositFields {
		writeXSDElement(&buffer, field, 4)
	}

	buffer.WriteString(`      </xs:sequence>
      <xs:attribute name="n" type="xs:positiveInteger" use="required"/>
      <xs:attribute name="row" type="xs:positiveInteger" use="required"/>
    </xs:complexType>
  </xs:element>

`)

	// Canonical number type shared by the three numbers.
	buffer.WriteString(`  <xs:complexType name="canonicalNumber">
    <xs:simpleContent>
      <xs:extension base="xs:string">
        <xs:attribute name="raw" type="xs:string" use="required"/>
        <xs:attribute name="outcome" use="required">
          <xs:simpleType>
            <xs:restriction base="xs:string">
              <xs:enumeration value="rule"/>
              <xs:enumeration value="generic-fallback"/>
              <xs:enumeration value="cleanup"/>
            </xs:restriction>
          </xs:simpleType>
        </xs:attribute>
        <xs:attribute name="rule" type="xs:string"/>
      </xs:extension>
    </xs:simpleContent>
  </xs:complexType>

</xs:schema>
`)

	return buffer.Bytes()
}

// writeXSDElement writes the definition of one deposit child.
func writeXSDElement(buffer *bytes.Buffer, field depositField, indentLevel int) {
	indent := strings.Repeat("  ", indentLevel)

	switch field.xsdType {
	case "number":
		buffer.WriteString(fmt.Sprintf("%s<xs:element name=\"%s\" type=\"canonicalNumber\" minOccurs=\"0\"/>\n",
			indent, field.tag))
	case "list":
		buffer.WriteString(fmt.Sprintf(`%s<xs:element name="%s" minOccurs="0">
%s  <xs:complexType>
%s    <xs:sequence>
%s      <xs:element name="%s" type="xs:string" maxOccurs="unbounded"/>
%s    </xs:sequence>
%s  </xs:complexType>
%s</xs:element>
`, indent, field.tag,
			indent, indent,
			indent, inventorElement,
			indent, indent, indent))
	default:
		buffer.WriteString(fmt.Sprintf("%s<xs:element name=\"%s\" type=\"%s\" minOccurs=\"0\"/>\n",
			indent, field.tag, field.xsdType))
	}
}
