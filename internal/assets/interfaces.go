package assets

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// Generator produces the QR-code and barcode images for a product id at the
// canonical per-id locations. The ledger core never draws these itself, it
// only discovers the files afterwards through the manifest.
type Generator interface {
	Generate(ctx context.Context, productID string) error
}

// Normalizer converts an arbitrary uploaded image (vendor camera formats
// included) into a canonical raster file at target. The core only asserts
// the output file exists afterwards.
type Normalizer interface {
	Normalize(ctx context.Context, src io.Reader, target string) error
}

// NopGenerator is wired when no external asset tool is configured. Records
// registered under it fall back to the shared placeholder until a real
// generator repopulates the asset folders.
type NopGenerator struct{}

func (NopGenerator) Generate(_ context.Context, productID string) error {
	zap.L().Debug("asset generation skipped, no generator configured",
		zap.String("product_id", productID))
	return nil
}

// NopNormalizer rejects nothing and writes nothing; uploads are ignored and
// the record keeps the placeholder link.
type NopNormalizer struct{}

func (NopNormalizer) Normalize(_ context.Context, _ io.Reader, target string) error {
	zap.L().Debug("image normalization skipped, no normalizer configured",
		zap.String("target", target))
	return nil
}
