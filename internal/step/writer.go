package step

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// countingWriter tracks bytes written so WriteTo can satisfy io.WriterTo.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

// WriteTo serializes the file in exchange-file syntax. Instances are written
// in their original order, with added instances last.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	bw.WriteString(magicStart + ";\n")
	bw.WriteString("HEADER;\n")
	f.writeHeader(bw)
	bw.WriteString("ENDSEC;\n")
	bw.WriteString("DATA;\n")
	for _, id := range f.order {
		writeInstance(bw, f.instances[id])
	}
	bw.WriteString("ENDSEC;\n")
	bw.WriteString(magicEnd + ";\n")

	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, cw.err
}

func (f *File) writeHeader(bw *bufio.Writer) {
	h := f.Header
	level := h.ImplementationLevel
	if level == "" {
		level = "2;1"
	}
	writePart(bw, Part{Type: "FILE_DESCRIPTION", Attrs: []Value{stringList(h.Description), String(level)}})
	bw.WriteString(";\n")
	writePart(bw, Part{Type: "FILE_NAME", Attrs: []Value{
		String(h.Name),
		String(h.TimeStamp),
		stringList(h.Author),
		stringList(h.Organization),
		String(h.PreprocessorVersion),
		String(h.OriginatingSystem),
		String(h.Authorization),
	}})
	bw.WriteString(";\n")
	writePart(bw, Part{Type: "FILE_SCHEMA", Attrs: []Value{stringList(h.Schemas)}})
	bw.WriteString(";\n")
	for _, extra := range h.Extra {
		writePart(bw, extra)
		bw.WriteString(";\n")
	}
}

func stringList(items []string) Value {
	values := make([]Value, len(items))
	for i, s := range items {
		values[i] = String(s)
	}
	return List(values...)
}

func writeInstance(bw *bufio.Writer, inst *Instance) {
	bw.WriteByte('#')
	bw.WriteString(strconv.Itoa(inst.ID))
	bw.WriteByte('=')
	if inst.IsComplex() {
		bw.WriteByte('(')
		for _, part := range inst.Parts {
			writePart(bw, part)
		}
		bw.WriteByte(')')
	} else {
		writePart(bw, Part{Type: inst.Type, Attrs: inst.Attrs})
	}
	bw.WriteString(";\n")
}

func writePart(bw *bufio.Writer, part Part) {
	bw.WriteString(part.Type)
	writeList(bw, part.Attrs)
}

func writeList(bw *bufio.Writer, items []Value) {
	bw.WriteByte('(')
	for i, v := range items {
		if i > 0 {
			bw.WriteByte(',')
		}
		writeValue(bw, v)
	}
	bw.WriteByte(')')
}

func writeValue(bw *bufio.Writer, v Value) {
	switch v.Kind {
	case KindNull:
		bw.WriteByte('$')
	case KindDerived:
		bw.WriteByte('*')
	case KindInteger:
		bw.WriteString(strconv.FormatInt(v.Int, 10))
	case KindReal:
		bw.WriteString(FormatReal(v.Real))
	case KindString:
		bw.WriteByte('\'')
		bw.WriteString(EncodeString(v.Str))
		bw.WriteByte('\'')
	case KindEnum:
		bw.WriteByte('.')
		bw.WriteString(v.Str)
		bw.WriteByte('.')
	case KindBinary:
		bw.WriteByte('"')
		bw.WriteString(v.Str)
		bw.WriteByte('"')
	case KindRef:
		bw.WriteByte('#')
		bw.WriteString(strconv.Itoa(v.Ref))
	case KindList:
		writeList(bw, v.List)
	case KindTyped:
		bw.WriteString(v.Str)
		writeList(bw, v.List)
	}
}

// FormatReal renders f with the shortest round-trip digits and always
// includes a decimal point, as exchange-file reals require.
func FormatReal(f float64) string {
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if strings.ContainsAny(s, "NI") { // NaN, Inf
		return "0."
	}
	if i := strings.IndexByte(s, 'E'); i >= 0 {
		mantissa, exp := s[:i], s[i:]
		if !strings.Contains(mantissa, ".") {
			mantissa += "."
		}
		return mantissa + exp
	}
	if !strings.Contains(s, ".") {
		s += "."
	}
	return s
}
