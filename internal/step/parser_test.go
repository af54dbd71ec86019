package step

import (
	"bytes"
	"strings"
	"testing"
)

const sampleFile = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('ViewDefinition [CoordinationView]'),'2;1');
FILE_NAME('house.ifc','2024-03-01T10:00:00',('Ann'),('Studio'),'pre','app','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
/* project */
#1=IFCPROJECT('0YvctVUKr0kugbFTf53O9L',$,'House',$,$,$,$,$,$);
#2=IFCWALL('1hOSvn6df7F8_7GcBWlRGQ',$,'Wall:Basic:200',$,$,$,$,$,.STANDARD.);
#3=IFCPROPERTYSINGLEVALUE('Width',$,IFCLENGTHMEASURE(0.2),$);
#4=IFCCARTESIANPOINT((0.,1.5E-3,-2.));
#5=(IFCA(1)IFCB('x'));
#6=IFCLABELS((#1,#2),*,"0FF");
ENDSEC;
END-ISO-10303-21;
`

func TestParseBytes(t *testing.T) {
	f, err := ParseBytes([]byte(sampleFile))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	if f.Len() != 6 {
		t.Errorf("Len() = %d, want 6", f.Len())
	}
	if f.MaxID() != 6 {
		t.Errorf("MaxID() = %d, want 6", f.MaxID())
	}
	if got := f.Header.Schemas; len(got) != 1 || got[0] != "IFC4" {
		t.Errorf("Schemas = %v, want [IFC4]", got)
	}
	if f.Header.Name != "house.ifc" {
		t.Errorf("Header.Name = %q, want house.ifc", f.Header.Name)
	}
	if len(f.Header.Author) != 1 || f.Header.Author[0] != "Ann" {
		t.Errorf("Header.Author = %v, want [Ann]", f.Header.Author)
	}
	if f.Header.ImplementationLevel != "2;1" {
		t.Errorf("ImplementationLevel = %q", f.Header.ImplementationLevel)
	}

	wall, ok := f.Instance(2)
	if !ok {
		t.Fatal("Instance(2) missing")
	}
	if wall.Type != "IFCWALL" {
		t.Errorf("wall.Type = %q", wall.Type)
	}
	if name, _ := wall.Attr(2).AsString(); name != "Wall:Basic:200" {
		t.Errorf("wall name = %q", name)
	}
	if e, _ := wall.Attr(8).AsEnum(); e != "STANDARD" {
		t.Errorf("wall predefined type = %q", e)
	}
	if !wall.Attr(99).IsNull() {
		t.Error("out-of-range attribute should be null")
	}

	prop, _ := f.Instance(3)
	nominal := prop.Attr(2)
	if nominal.TypeName() != "IFCLENGTHMEASURE" {
		t.Errorf("TypeName() = %q", nominal.TypeName())
	}
	if v, ok := nominal.AsFloat(); !ok || v != 0.2 {
		t.Errorf("AsFloat() = %v, %v", v, ok)
	}

	pt, _ := f.Instance(4)
	coords := pt.Attr(0).Floats()
	want := []float64{0, 0.0015, -2}
	if len(coords) != 3 {
		t.Fatalf("coords = %v", coords)
	}
	for i := range want {
		if coords[i] != want[i] {
			t.Errorf("coords[%d] = %v, want %v", i, coords[i], want[i])
		}
	}

	complexInst, _ := f.Instance(5)
	if !complexInst.IsComplex() || len(complexInst.Parts) != 2 {
		t.Errorf("instance 5 should be complex with 2 parts, got %+v", complexInst)
	}
	if len(f.ByType("IFCA")) != 0 {
		t.Error("complex parts should not be indexed by type")
	}

	labels, _ := f.Instance(6)
	if refs := labels.Attr(0).Refs(); len(refs) != 2 || refs[0] != 1 || refs[1] != 2 {
		t.Errorf("Refs() = %v", refs)
	}
	if labels.Attr(1).Kind != KindDerived {
		t.Errorf("attr 1 kind = %v, want derived", labels.Attr(1).Kind)
	}
	if labels.Attr(2).Kind != KindBinary || labels.Attr(2).Str != "0FF" {
		t.Errorf("attr 2 = %+v", labels.Attr(2))
	}

	if got := f.ByType("IfcWall"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("ByType(IfcWall) = %v", got)
	}
}

func TestParseBytes_Errors(t *testing.T) {
	header := "ISO-10303-21;\nHEADER;\nFILE_SCHEMA(('IFC4'));\nENDSEC;\n"
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"empty", "", "expected ISO-10303-21"},
		{"not a step file", "PK\x03\x04", "expected ISO-10303-21"},
		{"stray byte", "ISO-10303-21;\nHEADER;\n@", "unexpected character"},
		{"missing schema", "ISO-10303-21;\nHEADER;\nFILE_NAME('a','b',(),(),'','','');\nENDSEC;\nDATA;\nENDSEC;\nEND-ISO-10303-21;", "FILE_SCHEMA"},
		{"no data", header + "END-ISO-10303-21;", "missing DATA"},
		{"truncated", header + "DATA;\n#1=IFCWALL('a',", "end of file"},
		{"duplicate id", header + "DATA;\n#1=IFCWALL();\n#1=IFCSLAB();\nENDSEC;\nEND-ISO-10303-21;", "duplicate instance #1"},
		{"unterminated string", header + "DATA;\n#1=IFCWALL('abc);\n", "unterminated string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_DataSectionWithParameters(t *testing.T) {
	input := "ISO-10303-21;HEADER;FILE_SCHEMA(('IFC4X3'));ENDSEC;" +
		"DATA('main',('IFC4X3'));#7=IFCSLAB($);ENDSEC;" +
		"DATA;#8=IFCROOF($);ENDSEC;END-ISO-10303-21;"
	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Len() != 2 {
		t.Errorf("Len() = %d, want 2", f.Len())
	}
}

func TestWriteTo_RoundTrip(t *testing.T) {
	f, err := ParseBytes([]byte(sampleFile))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	added := f.Add("IfcPropertySingleValue", String("Author"), Null(), Typed("IFCLABEL", String("José O'Neil")), Null())
	if added.ID != 7 {
		t.Errorf("added.ID = %d, want 7", added.ID)
	}

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo() n = %d, buffer has %d", n, buf.Len())
	}

	again, err := ParseBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("re-parse error = %v\n%s", err, buf.String())
	}
	if again.Len() != 7 {
		t.Errorf("re-parsed Len() = %d, want 7", again.Len())
	}
	inst, _ := again.Instance(7)
	if got, _ := inst.Attr(2).AsString(); got != "José O'Neil" {
		t.Errorf("round-tripped label = %q", got)
	}
	pt, _ := again.Instance(4)
	if got := pt.Attr(0).Floats(); len(got) != 3 || got[1] != 0.0015 {
		t.Errorf("round-tripped point = %v", got)
	}
	c, _ := again.Instance(5)
	if !c.IsComplex() {
		t.Error("complex instance lost on round trip")
	}
	if again.Header.Name != "house.ifc" {
		t.Errorf("round-tripped header name = %q", again.Header.Name)
	}
}

func TestFormatReal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0."},
		{1, "1."},
		{-2.5, "-2.5"},
		{0.0015, "0.0015"},
		{1e21, "1.E+21"},
		{1.5e-7, "1.5E-07"},
	}
	for _, tt := range tests {
		if got := FormatReal(tt.in); got != tt.want {
			t.Errorf("FormatReal(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
