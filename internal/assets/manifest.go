package assets

import "github.com/wildfireconsulting/quantix/pkg/common"

// Manifest is the resolved on-disk asset set for one product id. Empty fields
// mean no per-id file exists for that kind; the reconciler decides what to do
// with the gaps (placeholder for images, leave untouched for codes).
type Manifest struct {
	ProductID string
	Image     string
	QR        string
	Barcode   string
}

// Resolve probes the canonical per-id locations and returns what actually
// exists on disk. This is the only place filename-convention lookups happen.
func (l Layout) Resolve(productID string) Manifest {
	m := Manifest{ProductID: productID}
	for _, candidate := range l.ImageCandidates(productID) {
		if common.FileExists(candidate) {
			m.Image = candidate
			break
		}
	}
	if p := l.QRPath(productID); common.FileExists(p) {
		m.QR = p
	}
	if p := l.BarcodePath(productID); common.FileExists(p) {
		m.Barcode = p
	}
	return m
}
