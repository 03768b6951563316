package assets

import (
	"path/filepath"

	"github.com/wildfireconsulting/quantix/pkg/common"
)

const (
	ImageDirName   = "product_images"
	QRDirName      = "qr_codes"
	BarcodeDirName = "barcodes"
	BackupDirName  = "backups"

	StoreFileName       = "inventory.csv"
	LedgerFileName      = "history.csv"
	CompanyFileName     = "config.json"
	LogoFileName        = "logo.png"
	PlaceholderFileName = "placeholder.png"
)

// ImageExtensions is the declared, ordered candidate list the reconciler
// consults when repairing a dangling image link. Only the repair pass reads
// it; fresh uploads are always normalized to .png.
var ImageExtensions = []string{".png", ".jpg", ".jpeg"}

// Layout derives every canonical asset location from the working directory
// and a product id. Paths are kept relative to the workdir so the persisted
// table and the backup archives stay relocatable.
type Layout struct {
	Workdir string
}

func NewLayout(workdir string) Layout { return Layout{Workdir: workdir} }

func (l Layout) join(parts ...string) string {
	return filepath.Join(append([]string{l.Workdir}, parts...)...)
}

func (l Layout) StoreFile() string   { return l.join(StoreFileName) }
func (l Layout) LedgerFile() string  { return l.join(LedgerFileName) }
func (l Layout) CompanyFile() string { return l.join(CompanyFileName) }
func (l Layout) LogoFile() string    { return l.join(LogoFileName) }
func (l Layout) Placeholder() string { return l.join(PlaceholderFileName) }

func (l Layout) ImageDir() string   { return l.join(ImageDirName) }
func (l Layout) QRDir() string      { return l.join(QRDirName) }
func (l Layout) BarcodeDir() string { return l.join(BarcodeDirName) }
func (l Layout) BackupDir() string  { return l.join(BackupDirName) }

// ImagePath is the canonical target for a normalized product image.
func (l Layout) ImagePath(productID string) string {
	return filepath.Join(l.ImageDir(), productID+".png")
}

// ImageCandidates lists the per-id image locations in repair priority order.
func (l Layout) ImageCandidates(productID string) []string {
	out := make([]string, 0, len(ImageExtensions))
	for _, ext := range ImageExtensions {
		out = append(out, filepath.Join(l.ImageDir(), productID+ext))
	}
	return out
}

func (l Layout) QRPath(productID string) string {
	return filepath.Join(l.QRDir(), productID+".png")
}

func (l Layout) BarcodePath(productID string) string {
	return filepath.Join(l.BarcodeDir(), productID+".png")
}

// EnsureDirs creates the asset directories and the shared placeholder image.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.ImageDir(), l.QRDir(), l.BarcodeDir(), l.BackupDir()} {
		if err := common.EnsureDir(dir); err != nil {
			return err
		}
	}
	return l.EnsurePlaceholder()
}
