package domain

// ProductRecord is one row of the persisted inventory table. The CSV tags are
// the canonical persisted column set; the store guarantees every loaded table
// carries exactly these columns.
type ProductRecord struct {
	ProductID   string    `csv:"product_id" json:"product_id"`
	ProductName string    `csv:"product_name" json:"product_name"`
	Quantity    int       `csv:"quantity" json:"quantity"`
	MinStock    int       `csv:"min_stock" json:"min_stock"`
	CostPrice   Money     `csv:"cost_price" json:"cost_price"`
	SellPrice   Money     `csv:"sell_price" json:"sell_price"`
	LastUpdated Timestamp `csv:"last_updated" json:"last_updated"`
	ImagePath   string    `csv:"image_path" json:"image_path"`
	QRPath      string    `csv:"qr_path" json:"qr_path"`
	BarcodePath string    `csv:"barcode_path" json:"barcode_path"`
}

// ProductColumns is the canonical column set, in persisted order.
var ProductColumns = []string{
	"product_id",
	"product_name",
	"quantity",
	"min_stock",
	"cost_price",
	"sell_price",
	"last_updated",
	"image_path",
	"qr_path",
	"barcode_path",
}

// LowStock reports whether the record sits at or below its alert threshold.
func (r *ProductRecord) LowStock() bool {
	return r.Quantity <= r.MinStock
}
