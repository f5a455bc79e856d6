// Package multipart builds multipart/form-data responses
package multipart

import (
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
)

// TransferEncoding is the Content-Transfer-Encoding of a part
type TransferEncoding int

const (
	// EncodingDefault omits the header, the contents are UTF-8
	EncodingDefault TransferEncoding = iota
	// EncodingBinary marks contents that may not be valid UTF-8
	EncodingBinary
)

func (e TransferEncoding) String() string {
	if e == EncodingBinary {
		return "binary"
	}
	return ""
}

// Part is a single field of a form
type Part struct {
	Name     string
	Filename string
	MimeType string
	Contents []byte
	Encoding TransferEncoding
}

// Text creates a text/plain part without a filename
func Text(name, contents string) Part {
	return Part{
		Name:     name,
		MimeType: "text/plain",
		Contents: []byte(contents),
	}
}

// File creates an application/octet-stream part sent as binary
func File(field, filename string, contents []byte) Part {
	return Part{
		Name:     field,
		Filename: filename,
		MimeType: "application/octet-stream",
		Contents: contents,
		Encoding: EncodingBinary,
	}
}

// Raw creates a part with an explicit MIME type. An empty filename is omitted.
func Raw(name, mimeType string, contents []byte, filename string, encoding TransferEncoding) Part {
	return Part{
		Name:     name,
		Filename: filename,
		MimeType: mimeType,
		Contents: contents,
		Encoding: encoding,
	}
}

func (p Part) writeTo(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "Content-Disposition: form-data; name=\"%s\"", p.Name)
	if p.Filename != "" {
		fmt.Fprintf(buf, "; filename=\"%s\"", p.Filename)
	}
	buf.WriteString("\r\n")
	fmt.Fprintf(buf, "Content-Type: %s\r\n", p.MimeType)
	if enc := p.Encoding.String(); enc != "" {
		fmt.Fprintf(buf, "Content-Transfer-Encoding: %s\r\n", enc)
	}
	buf.WriteString("\r\n")
	buf.Write(p.Contents)
	buf.WriteString("\r\n")
}

// Form is a multipart/form-data body. It can be returned from a handler by
// serving it or written with WriteTo.
type Form struct {
	parts    []Part
	boundary string
}

// NewForm creates a form holding parts, with a fresh random boundary
func NewForm(parts ...Part) *Form {
	return &Form{parts: parts, boundary: newBoundary()}
}

// Add appends a part and returns the form for chaining
func (f *Form) Add(part Part) *Form {
	f.parts = append(f.parts, part)
	return f
}

// Parts returns the parts in order
func (f *Form) Parts() []Part { return f.parts }

// Boundary returns the boundary separating parts
func (f *Form) Boundary() string { return f.boundary }

// ContentType is the value of the Content-Type header for this form
func (f *Form) ContentType() string {
	return "multipart/form-data; boundary=" + f.boundary
}

// Bytes serializes the form
func (f *Form) Bytes() []byte {
	var buf bytes.Buffer
	for _, part := range f.parts {
		fmt.Fprintf(&buf, "--%s\r\n", f.boundary)
		part.writeTo(&buf)
	}
	fmt.Fprintf(&buf, "--%s--", f.boundary)
	return buf.Bytes()
}

// WriteTo implements io.WriterTo
func (f *Form) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// ServeHTTP writes the form as the response
func (f *Form) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = f.WriteTo(w)
}

func newBoundary() string {
	return fmt.Sprintf("%016x-%016x-%016x-%016x", rand.Uint64(), rand.Uint64(), rand.Uint64(), rand.Uint64())
}
