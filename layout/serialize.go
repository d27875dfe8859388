package layout

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// WriteTo serializes the circuit into binary CBOR format.
func (c *Circuit) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	if err := em.NewEncoder(cw).Encode(c); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom decodes the circuit from binary CBOR format.
func (c *Circuit) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	dm, err := cbor.DecOptions{
		MaxArrayElements: 134217728,
		MaxMapPairs:      134217728,
	}.DecMode()
	if err != nil {
		return 0, err
	}
	if err := dm.NewDecoder(cr).Decode(c); err != nil {
		return cr.n, err
	}
	return cr.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
